package services

import (
	"html/template"
	"strings"
)

var contactTemplate = template.Must(template.New("contact").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #1f2937;">
  <h2>New contact form submission</h2>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><td><strong>Name</strong></td><td>{{.Name}}</td></tr>
    <tr><td><strong>Email</strong></td><td><a href="mailto:{{.Email}}">{{.Email}}</a></td></tr>
    {{with .Phone}}<tr><td><strong>Phone</strong></td><td>{{.}}</td></tr>{{end}}
    {{with .Company}}<tr><td><strong>Company</strong></td><td>{{.}}</td></tr>{{end}}
  </table>
  <p style="white-space: pre-wrap;">{{.Message}}</p>
</body>
</html>`))

func contactText(req ContactRequest) string {
	var b strings.Builder
	b.WriteString("New contact form submission\n\n")
	b.WriteString("Name: " + req.Name + "\n")
	b.WriteString("Email: " + req.Email + "\n")
	if p := strings.TrimSpace(req.Phone); p != "" {
		b.WriteString("Phone: " + p + "\n")
	}
	if c := strings.TrimSpace(req.Company); c != "" {
		b.WriteString("Company: " + c + "\n")
	}
	b.WriteString("\n" + req.Message + "\n")
	return b.String()
}

func contactHTML(req ContactRequest) string {
	var b strings.Builder
	if err := contactTemplate.Execute(&b, req); err != nil {
		// Plain text part still carries the submission
		return ""
	}
	return b.String()
}
