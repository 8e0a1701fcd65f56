package views

import (
	"embed"
	"fmt"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"money": FormatMoney,
	"title": title,
}

// Templates parse les gabarits embarqués ; à passer à gin.SetHTMLTemplate.
func Templates() (*template.Template, error) {
	return template.New("shopeasy").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
}

func title(v any) string {
	s := fmt.Sprint(v)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
