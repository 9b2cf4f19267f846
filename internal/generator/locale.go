// ABOUTME: Locale catalog updates for scaffolded pages.
// ABOUTME: Builds each locale's subtree, deep-merges it, and validates before anything is written.

package generator

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/2389/rigdesk/internal/i18n"
)

// defaultStrings are the per-locale texts of a scaffolded page.
var defaultStrings = map[string]map[string]string{
	"en": {
		"name": "Name", "createdAt": "Created", "create": "New", "emptyCta": "Create the first record",
		"search": "Search…", "created": "Created", "updated": "Updated", "deleted": "Deleted",
	},
	"es": {
		"name": "Nombre", "createdAt": "Creado", "create": "Nuevo", "emptyCta": "Crea el primer registro",
		"search": "Buscar…", "created": "Creado", "updated": "Actualizado", "deleted": "Eliminado",
	},
	"zh": {
		"name": "名称", "createdAt": "创建时间", "create": "新建", "emptyCta": "创建第一条记录",
		"search": "搜索…", "created": "已创建", "updated": "已更新", "deleted": "已删除",
	},
}

// localeTree builds the entries a scaffolded page needs in one locale.
func localeTree(locale string, d templateData) i18n.Tree {
	strs, ok := defaultStrings[locale]
	if !ok {
		strs = defaultStrings[i18n.DefaultLocale]
	}

	fields := i18n.Tree{"name": strs["name"], "createdAt": strs["createdAt"]}
	page := i18n.Tree{
		"title":             label(d.schema.Title, locale, d.Title),
		"emptyCta":          strs["emptyCta"],
		"searchPlaceholder": strs["search"],
		"actions":           i18n.Tree{"create": strs["create"]},
		"messages":          i18n.Tree{"created": strs["created"], "updated": strs["updated"], "deleted": strs["deleted"]},
		"fields":            fields,
	}
	for _, f := range d.schema.Fields {
		fields[f.Key] = label(f.Label, locale, humanize(f.Key))
		if len(f.Options) > 0 {
			opts := i18n.Tree{}
			for _, o := range f.Options {
				opts[o] = humanize(o)
			}
			page[f.Key] = opts
		}
	}
	return i18n.Tree{d.Prefix: page}
}

// label picks the locale's text, then English, then def. An explicitly empty
// entry is kept so validation can report it.
func label(labels map[string]string, locale, def string) string {
	if v, ok := labels[locale]; ok {
		return v
	}
	if v, ok := labels[i18n.DefaultLocale]; ok && v != "" {
		return v
	}
	return def
}

// mergeLocales returns the merged catalogs for every locale, or a
// ValidationError listing every invalid leaf of the generated entries.
// A top-level section named like the entity must belong to the page
// being regenerated (owned); anything else is a collision.
func mergeLocales(root string, d templateData, owned bool) ([]pendingFile, error) {
	var files []pendingFile
	var violations []i18n.Violation

	for _, locale := range i18n.Locales {
		rel := filepath.Join(i18n.LocaleDir, locale+".json")
		raw, err := os.ReadFile(filepath.Join(root, rel))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", rel, err)
		}
		existing, err := i18n.ParseTree(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rel, err)
		}
		if _, taken := existing[d.Prefix]; taken && !owned {
			return nil, fmt.Errorf("%s: section %q already defined by another page", rel, d.Prefix)
		}

		generated := localeTree(locale, d)
		for _, v := range i18n.Validate(generated) {
			v.Path = locale + ":" + v.Path
			violations = append(violations, v)
		}

		merged, err := i18n.Merge(existing.Clone(), generated).Marshal()
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", rel, err)
		}
		files = append(files, pendingFile{rel: rel, data: merged, merged: true})
	}

	if len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}
	return files, nil
}
