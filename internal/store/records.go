// ABOUTME: Generic named-record tables for entities scaffolded by create-page.
// ABOUTME: Each table holds id, name, a JSON column of extra fields, and timestamps, and is created on first use.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

// Record is the default shape of a scaffolded entity. Extra holds the
// fields a page adds on top of name; they are stored as one JSON column and
// flattened into the record's JSON form.
type Record struct {
	ID        string
	Name      string
	Extra     map[string]any
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r Record) GetID() string { return r.ID }

var recordKeys = map[string]bool{"id": true, "name": true, "createdAt": true, "updatedAt": true}

func (r Record) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Extra)+4)
	for k, v := range r.Extra {
		out[k] = v
	}
	out["id"] = r.ID
	out["name"] = r.Name
	out["createdAt"] = r.CreatedAt
	out["updatedAt"] = r.UpdatedAt
	return json.Marshal(out)
}

func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Record{}
	r.ID, _ = raw["id"].(string)
	r.Name, _ = raw["name"].(string)
	for k, v := range raw {
		if recordKeys[k] {
			continue
		}
		if r.Extra == nil {
			r.Extra = make(map[string]any)
		}
		r.Extra[k] = v
	}
	return nil
}

var tableNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// RecordTable is a repository over one named-record table
type RecordTable struct {
	s     *Store
	table string
}

// Records returns the repository for table, creating the table if needed.
func (s *Store) Records(ctx context.Context, table string) (*RecordTable, error) {
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}

	_, err := s.exec(ctx, `CREATE TABLE IF NOT EXISTS `+table+` (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		extra TEXT NOT NULL DEFAULT '{}',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		return nil, fmt.Errorf("create table %s: %w", table, err)
	}
	return &RecordTable{s: s, table: table}, nil
}

func (t *RecordTable) Table() string { return t.table }

func scanRecord(sc scanner) (Record, error) {
	var r Record
	var extra string
	if err := sc.Scan(&r.ID, &r.Name, &extra, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(extra), &r.Extra); err != nil {
		return r, fmt.Errorf("decode extra fields of %s: %w", r.ID, err)
	}
	return r, nil
}

func encodeExtra(extra map[string]any) (string, error) {
	if len(extra) == 0 {
		return "{}", nil
	}
	data, err := json.Marshal(extra)
	return string(data), err
}

func (t *RecordTable) List(ctx context.Context) ([]Record, error) {
	return queryAll(ctx, t.s, scanRecord, `SELECT id, name, extra, created_at, updated_at FROM `+t.table+` ORDER BY created_at DESC`)
}

func (t *RecordTable) Get(ctx context.Context, id string) (Record, error) {
	return queryOne(ctx, t.s, scanRecord, `SELECT id, name, extra, created_at, updated_at FROM `+t.table+` WHERE id = ?`, id)
}

func (t *RecordTable) Create(ctx context.Context, r Record) (Record, error) {
	now := t.s.now().UTC()
	r.ID = uuid.NewString()
	r.CreatedAt, r.UpdatedAt = now, now
	extra, err := encodeExtra(r.Extra)
	if err != nil {
		return Record{}, err
	}

	_, err = t.s.exec(ctx, `INSERT INTO `+t.table+` (id, name, extra, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		r.ID, r.Name, extra, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return Record{}, err
	}
	return r, nil
}

func (t *RecordTable) Update(ctx context.Context, id string, r Record) (Record, error) {
	extra, err := encodeExtra(r.Extra)
	if err != nil {
		return Record{}, err
	}
	res, err := t.s.exec(ctx, `UPDATE `+t.table+` SET name = ?, extra = ?, updated_at = ? WHERE id = ?`, r.Name, extra, t.s.now().UTC(), id)
	if err != nil {
		return Record{}, err
	}
	if err := requireAffected(res); err != nil {
		return Record{}, err
	}
	return t.Get(ctx, id)
}

func (t *RecordTable) Delete(ctx context.Context, id string) error {
	res, err := t.s.exec(ctx, `DELETE FROM `+t.table+` WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}
