// ABOUTME: Page shell shared by every screen: navigation, locale switcher, toasts.
// ABOUTME: Parsed once from an inline html/template and rendered around each page body.

package admin

import (
	"bytes"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/2389/rigdesk/internal/i18n"
	"github.com/2389/rigdesk/internal/store"
)

// NavItem is one navigation entry. LabelKey is translated at render time.
type NavItem struct {
	Path     string
	LabelKey string
}

// Env carries what every page needs at request time.
type Env struct {
	// API serves the REST endpoints pages call in-process.
	API     http.Handler
	Store   *store.Store
	Catalog *i18n.Catalog
	Locale  string
	Nav     []NavItem
}

// Translator picks the locale for r.
func (e *Env) Translator(r *http.Request) *i18n.Translator {
	return e.Catalog.Translator(e.Catalog.Negotiate(r, e.Locale))
}

type navLink struct {
	Label  string
	URL    string
	Active bool
}

type localeLink struct {
	Code   string
	URL    string
	Active bool
}

type layoutData struct {
	Lang    string
	AppName string
	Title   string
	Nav     []navLink
	Locales []localeLink
	Toasts  template.HTML
	Body    template.HTML
}

var layoutTmpl = template.Must(template.New("layout").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} · {{.AppName}}</title>
<script src="https://cdn.tailwindcss.com"></script>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script>
document.addEventListener("submit", function (e) {
  var form = e.target;
  if (!form.hasAttribute("data-submit-guard")) return;
  if (form.dataset.busy === "true") { e.preventDefault(); return; }
  form.dataset.busy = "true";
  form.querySelectorAll("button[type=submit]").forEach(function (b) {
    if (b.dataset.submittingLabel) b.textContent = b.dataset.submittingLabel;
    b.disabled = true;
    b.setAttribute("aria-busy", "true");
  });
});
</script>
</head>
<body class="bg-gray-100 min-h-screen">
<nav class="bg-white shadow">
<div class="max-w-7xl mx-auto px-4 flex items-center justify-between h-14">
<div class="flex items-center gap-6">
<a href="/" class="font-bold text-purple-700">{{.AppName}}</a>
{{range .Nav}}<a href="{{.URL}}" class="text-sm {{if .Active}}text-purple-700 font-semibold{{else}}text-gray-600 hover:text-gray-900{{end}}">{{.Label}}</a>
{{end}}</div>
<div class="flex items-center gap-2 text-xs">
{{range .Locales}}<a href="{{.URL}}" class="{{if .Active}}font-semibold text-purple-700{{else}}text-gray-500{{end}}">{{.Code}}</a>
{{end}}</div>
</div>
</nav>
{{.Toasts}}
<main class="max-w-7xl mx-auto px-4 py-8">
{{.Body}}
</main>
</body>
</html>
`))

// render writes the shell around body with the given status.
func (e *Env) render(w http.ResponseWriter, r *http.Request, tr *i18n.Translator, title string, body, toasts template.HTML, status int) {
	data := layoutData{
		Lang:    tr.Locale(),
		AppName: tr.T("common.appName"),
		Title:   title,
		Toasts:  toasts,
		Body:    body,
	}
	for _, item := range e.Nav {
		data.Nav = append(data.Nav, navLink{
			Label:  tr.T(item.LabelKey),
			URL:    item.Path,
			Active: isActive(r.URL.Path, item.Path),
		})
	}
	for _, code := range i18n.Locales {
		data.Locales = append(data.Locales, localeLink{
			Code:   code,
			URL:    NewURL(r.URL.Path).PreserveFromRequest(r).WithParam(ParamLanguage, code).String(),
			Active: code == tr.Locale(),
		})
	}

	var buf bytes.Buffer
	if err := layoutTmpl.Execute(&buf, data); err != nil {
		log.Printf("admin: failed to render %s: %v", r.URL.Path, err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}

	// Remember an explicit language choice
	if lang := r.URL.Query().Get(ParamLanguage); lang != "" && lang == tr.Locale() {
		http.SetCookie(w, &http.Cookie{Name: "lang", Value: lang, Path: "/", SameSite: http.SameSiteLaxMode})
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func isActive(current, path string) bool {
	if path == "/" {
		return current == "/"
	}
	return current == path || strings.HasPrefix(current, path+"/")
}
