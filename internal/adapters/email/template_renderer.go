package email

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"fixit/internal/domain"
)

//go:embed templates/*
var templateFS embed.FS

// templateRenderer implements domain.EmailTemplateRenderer using embedded template files.
type templateRenderer struct{}

// NewTemplateRenderer returns an EmailTemplateRenderer that loads templates from the embedded templates folder.
func NewTemplateRenderer() domain.EmailTemplateRenderer {
	return &templateRenderer{}
}

// Render executes the named template (e.g. "admin_invite") with data and returns the subject and plaintext body.
func (r *templateRenderer) Render(templateName string, data any) (subject, textBody string, err error) {
	subject, err = r.renderFile(templateName+"_subject.txt", data)
	if err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}
	textBody, err = r.renderFile(templateName+".txt", data)
	if err != nil {
		return "", "", fmt.Errorf("render text: %w", err)
	}
	return strings.TrimSpace(subject), textBody, nil
}

func (r *templateRenderer) renderFile(name string, data any) (string, error) {
	raw, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		return "", err
	}
	t, err := template.New(name).Option("missingkey=error").Parse(string(raw))
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
