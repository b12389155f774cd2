package ui

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	twmerge "github.com/Oudwins/tailwind-merge-go"
	"github.com/a-h/templ"
	"github.com/recipebox/recipebox/internal/config"
	"github.com/recipebox/recipebox/internal/ctxkeys"
	"github.com/recipebox/recipebox/internal/model"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

//go:embed templates/*.html
var templateFS embed.FS

// view is what every template sees: request-scoped values plus the
// page's own data under .Page.
type view struct {
	Title  string
	CSRF   string
	Nonce  string
	Path   string
	User   *model.User
	Config *config.Config
	Flash  Flash
	Page   any
}

func (v view) AppName() string {
	if v.Config == nil || v.Config.AppName == "" {
		return "Recipe Box"
	}
	return v.Config.AppName
}

func (v view) IsAdmin() bool {
	return v.User != nil && v.User.IsAdmin()
}

var funcs = template.FuncMap{
	"cn": func(classes ...string) string {
		return twmerge.Merge(classes...)
	},
	"title": func(s string) string {
		return cases.Title(language.English).String(s)
	},
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("Jan 2, 2006")
	},
	"active": func(current, prefix string) bool {
		if prefix == "/" {
			return current == "/"
		}
		return current == prefix || strings.HasPrefix(current, prefix+"/")
	},
	"blank": func() any { return nil },
	"checked": func(b bool) template.HTMLAttr {
		if b {
			return "checked"
		}
		return ""
	},
	"selected": func(a, b string) template.HTMLAttr {
		if a == b {
			return "selected"
		}
		return ""
	},
}

var layout = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html"))

var cache = map[string]*template.Template{}

func init() {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		panic(err)
	}
	for _, e := range entries {
		name := e.Name()
		if name == "layout.html" {
			continue
		}
		t := template.Must(layout.Clone())
		cache[strings.TrimSuffix(name, ".html")] = template.Must(t.ParseFS(templateFS, "templates/"+name))
	}
}

// page builds a component executing the named template inside the layout.
func page(name, title string, flash Flash, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := cache[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}

		user := ctxkeys.User(ctx)
		return t.ExecuteTemplate(w, "layout", view{
			Title:  title,
			CSRF:   ctxkeys.CSRFToken(ctx),
			Nonce:  templ.GetNonce(ctx),
			Path:   ctxkeys.URLPath(ctx),
			User:   user,
			Config: ctxkeys.Config(ctx),
			Flash:  flash,
			Page:   data,
		})
	})
}
