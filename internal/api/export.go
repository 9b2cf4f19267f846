// ABOUTME: CSV and Excel export for REST resources.
// ABOUTME: Flattens items through their JSON projection and streams a download.

package api

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/xuri/excelize/v2"

	apierrors "github.com/2389/rigdesk/internal/errors"
)

func (res *Resource[T]) export(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		apierrors.WriteErrorWithField(w, http.StatusBadRequest, apierrors.ErrValidationFailed, "format must be csv or xlsx", "format")
		return
	}

	items, err := res.repo.List(r.Context())
	if err != nil {
		res.writeStoreError(w, "export", err)
		return
	}

	columns, rows, err := flatten(items, res.exportColumns)
	if err != nil {
		res.writeStoreError(w, "export", err)
		return
	}

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = strcase.ToSnake(c)
	}

	sheet := strcase.ToCamel(res.name) + "s"
	if format == "xlsx" {
		ExportExcel(w, sheet, headers, rows)
		return
	}
	ExportCSV(w, strcase.ToKebab(sheet)+".csv", headers, rows)
}

// flatten projects items to string rows. With no explicit columns, every
// key of the projection is exported in sorted order.
func flatten[T any](items []T, columns []string) ([]string, [][]string, error) {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		raw, err := json.Marshal(item)
		if err != nil {
			return nil, nil, err
		}
		var m map[string]any
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, nil, err
		}
		records = append(records, m)
	}

	if len(columns) == 0 && len(records) > 0 {
		for k := range records[0] {
			columns = append(columns, k)
		}
		sort.Strings(columns)
	}

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = cellValue(rec[c])
		}
		rows = append(rows, row)
	}
	return columns, rows, nil
}

func cellValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprint(val)
	}
}

// ExportCSV writes headers and rows as a CSV attachment.
func ExportCSV(w http.ResponseWriter, filename string, headers []string, data [][]string) {
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))

	writer := csv.NewWriter(w)
	writer.Write(headers)
	for _, row := range data {
		writer.Write(row)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		log.Printf("api: csv export failed: %v", err)
	}
}

// ExportExcel writes headers and rows as a single-sheet xlsx attachment.
func ExportExcel(w http.ResponseWriter, sheetName string, headers []string, data [][]string) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(sheetName)
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrInternal, "failed to create Excel sheet")
		return
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		apierrors.WriteError(w, http.StatusInternalServerError, apierrors.ErrInternal, "failed to create header style")
		return
	}

	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx, row := range data {
		for colIdx, value := range row {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	for i := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, 18)
	}

	if sheetName != "Sheet1" {
		f.DeleteSheet("Sheet1")
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", strings.ToLower(sheetName)))

	if err := f.Write(w); err != nil {
		log.Printf("api: xlsx export failed: %v", err)
	}
}
