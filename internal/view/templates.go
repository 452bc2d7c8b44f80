package view

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/synexis/synexis-admin/internal/notify"
	"github.com/synexis/synexis-admin/internal/viewport"
	"github.com/synexis/synexis-admin/web"
)

// Engine renders HTML templates.
type Engine struct {
	templates *template.Template
}

// NavItem is one sidebar link.
type NavItem struct {
	Label string
	Path  string
}

// NavSection groups sidebar links under a heading.
type NavSection struct {
	Title string
	Items []NavItem
}

// Navigation is the sidebar of every page.
var Navigation = []NavSection{
	{Title: "Dashboard", Items: []NavItem{{Label: "Overview", Path: "/"}}},
	{Title: "Inventory", Items: []NavItem{
		{Label: "Categories", Path: "/categories"},
		{Label: "Brands", Path: "/brands"},
		{Label: "Units", Path: "/units"},
		{Label: "Materials", Path: "/materials"},
	}},
	{Title: "People", Items: []NavItem{{Label: "Employees", Path: "/employees"}}},
	{Title: "Sales", Items: []NavItem{
		{Label: "Customers", Path: "/customers"},
		{Label: "Inquiries", Path: "/inquiries"},
	}},
}

// TemplateData contains values shared across templates.
type TemplateData struct {
	Title         string
	CSRFToken     string
	Notifications []notify.Notification
	CurrentPath   string
	Layout        viewport.View
	Nav           []NavSection
	Data          any
}

// NewEngine parses templates at build-time.
func NewEngine() (*Engine, error) {
	tpl, err := template.New("root").Funcs(Funcs()).ParseFS(web.Templates,
		"templates/layouts/*.html",
		"templates/partials/*.html",
		"templates/pages/*.html",
		"templates/pages/*/*.html",
	)
	if err != nil {
		return nil, err
	}
	return &Engine{templates: tpl}, nil
}

// Render executes a named template with TemplateData. The page is rendered
// into a buffer first so a template error never produces half a page.
func (e *Engine) Render(w http.ResponseWriter, name string, data TemplateData) error {
	return e.RenderStatus(w, name, data, http.StatusOK)
}

// RenderStatus is Render with an explicit status code.
func (e *Engine) RenderStatus(w http.ResponseWriter, name string, data TemplateData, status int) error {
	if e == nil {
		return fmt.Errorf("template engine not initialised")
	}
	if data.Nav == nil {
		data.Nav = Navigation
	}
	var buf bytes.Buffer
	if err := e.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Has reports whether a template with that name was parsed.
func (e *Engine) Has(name string) bool {
	return e != nil && e.templates.Lookup(name) != nil
}

var pricePrinter = message.NewPrinter(language.English)

// Funcs returns the template helpers.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatDate": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return t.Format("02 Jan 2006 15:04")
		},
		"formatStamp": FormatStamp,
		"price": func(v *float64) string {
			if v == nil {
				return "-"
			}
			return pricePrinter.Sprintf("%.2f", *v)
		},
		"deref": func(v *int64) string {
			if v == nil {
				return ""
			}
			return strconv.FormatInt(*v, 10)
		},
		"derefFloat": func(v *float64) string {
			if v == nil {
				return ""
			}
			return strconv.FormatFloat(*v, 'f', -1, 64)
		},
		"selected": func(v *int64, id int64) bool {
			return v != nil && *v == id
		},
		"active": func(current, path string) bool {
			if path == "/" {
				return current == "/"
			}
			return current == path || strings.HasPrefix(current, path+"/")
		},
		"pageURL": func(path string, q any, page int) string {
			values := url.Values{}
			values.Set("page", strconv.Itoa(page))
			if lq, ok := q.(interface{ Values() url.Values }); ok {
				for k, v := range lq.Values() {
					if k != "page" {
						values[k] = v
					}
				}
			}
			return path + "?" + values.Encode()
		},
		"toJSON": func(v any) (template.JS, error) {
			raw, err := json.Marshal(v)
			if err != nil {
				return "", err
			}
			return template.JS(raw), nil
		},
		"initials": Initials,
		"dict": func(pairs ...any) (map[string]any, error) {
			if len(pairs)%2 != 0 {
				return nil, fmt.Errorf("dict: odd number of arguments")
			}
			out := make(map[string]any, len(pairs)/2)
			for i := 0; i < len(pairs); i += 2 {
				key, ok := pairs[i].(string)
				if !ok {
					return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
				}
				out[key] = pairs[i+1]
			}
			return out, nil
		},
	}
}

// Initials returns up to two upper-case initials of the words in parts.
func Initials(parts ...string) string {
	out := make([]rune, 0, 2)
	for _, word := range strings.Fields(strings.Join(parts, " ")) {
		out = append(out, []rune(strings.ToUpper(word))[0])
		if len(out) == 2 {
			break
		}
	}
	return string(out)
}

var stampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseStamp parses a backend timestamp string. It reports whether the value
// carries a time of day.
func ParseStamp(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	for _, layout := range stampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, layout != "2006-01-02"
		}
	}
	return time.Time{}, false
}

// FormatStamp renders a backend timestamp string for display. Unparseable
// input is returned unchanged.
func FormatStamp(raw string) string {
	t, clock := ParseStamp(raw)
	switch {
	case t.IsZero():
		return strings.TrimSpace(raw)
	case clock:
		return t.Format("02 Jan 2006 15:04")
	default:
		return t.Format("02 Jan 2006")
	}
}
