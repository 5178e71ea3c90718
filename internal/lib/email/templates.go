package email

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/pkg/errors"
)

//go:embed templates/*.html
var templateFS embed.FS

// Template names an HTML file under templates/.
type Template string

const (
	TemplateVerificationReport Template = "verification_report"
)

var templates = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// RenderTemplate executes the named template with data.
func RenderTemplate(name Template, data any) (string, error) {
	var body bytes.Buffer
	if err := templates.ExecuteTemplate(&body, string(name)+".html", data); err != nil {
		return "", errors.Wrapf(err, "failed to execute email template %s", name)
	}
	return body.String(), nil
}
