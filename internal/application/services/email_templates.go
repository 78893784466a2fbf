package services

import (
	"bytes"
	"embed"
	"fmt"
	"html"
	"html/template"
	"sort"
	"strings"
)

//go:embed templates/*.html
var templateFS embed.FS

// RenderedEmail is a template's output.
type RenderedEmail struct {
	Subject string
	HTML    string
}

// TemplateRenderer renders the named system email templates.
type TemplateRenderer struct {
	appName   string
	templates map[string]*template.Template
}

// NewTemplateRenderer parses every embedded template.
func NewTemplateRenderer(appName string) (*TemplateRenderer, error) {
	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, err
	}

	r := &TemplateRenderer{appName: appName, templates: make(map[string]*template.Template)}
	for _, e := range entries {
		name := strings.TrimSuffix(e.Name(), ".html")
		t, err := template.New(name).Option("missingkey=zero").ParseFS(templateFS, "templates/"+e.Name())
		if err != nil {
			return nil, fmt.Errorf("failed to parse email template %s: %w", name, err)
		}
		r.templates[name] = t
	}
	return r, nil
}

// Names lists the available templates.
func (r *TemplateRenderer) Names() []string {
	names := make([]string, 0, len(r.templates))
	for n := range r.templates {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Has reports whether name is a known template.
func (r *TemplateRenderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// Render executes template name with data. AppName is filled in unless data sets it.
func (r *TemplateRenderer) Render(name string, data map[string]interface{}) (*RenderedEmail, error) {
	t, ok := r.templates[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}

	vars := map[string]interface{}{"AppName": r.appName}
	for k, v := range data {
		vars[exportedKey(k)] = v
	}

	var subject, body bytes.Buffer
	if err := t.ExecuteTemplate(&subject, "subject", vars); err != nil {
		return nil, fmt.Errorf("failed to render %s subject: %w", name, err)
	}
	if err := t.ExecuteTemplate(&body, "body", vars); err != nil {
		return nil, fmt.Errorf("failed to render %s body: %w", name, err)
	}

	return &RenderedEmail{
		// Subjects are plain text headers, not HTML
		Subject: strings.TrimSpace(html.UnescapeString(subject.String())),
		HTML:    body.String(),
	}, nil
}

// exportedKey lets callers send camelCase keys ("dashboardUrl") for
// TitleCase template fields ("DashboardURL").
func exportedKey(k string) string {
	if k == "" {
		return k
	}
	k = strings.ToUpper(k[:1]) + k[1:]
	if strings.HasSuffix(k, "Url") {
		k = strings.TrimSuffix(k, "Url") + "URL"
	}
	return k
}
