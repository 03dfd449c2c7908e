// File: internal/handler/pages/render.go
package pages

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"issue-tracker/internal/model"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// StaticFS 回傳 /static 底下提供的檔案
func StaticFS() fs.FS {
	return echo.MustSubFS(staticFS, "static")
}

var pageNames = []string{
	"dashboard.html",
	"issues.html",
	"issue.html",
	"issue_form.html",
	"signin.html",
	"signup.html",
	"not_found.html",
}

var funcs = template.FuncMap{
	"statusLabel": func(s model.IssueStatus) string { return strings.ReplaceAll(string(s), "_", " ") },
	"statusClass": func(s model.IssueStatus) string { return "status-" + strings.ToLower(string(s)) },
	"date":        func(t time.Time) string { return t.UTC().Format("02/01/2006") },
	"iso":         func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
	"assigneeName": func(iss model.Issue) string {
		if iss.Assignee == nil {
			return ""
		}
		if iss.Assignee.Name != nil && *iss.Assignee.Name != "" {
			return *iss.Assignee.Name
		}
		if iss.Assignee.Email != nil {
			return *iss.Assignee.Email
		}
		return iss.Assignee.ID
	},
}

// Renderer 實作 echo.Renderer，每個頁面各自與 layout 組成一組模板
type Renderer struct {
	pages map[string]*template.Template
}

// NewRenderer 解析所有內嵌模板
func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: map[string]*template.Template{}}
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, fmt.Errorf("NewRenderer: %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}
