package notify

import (
	"html/template"
	"strings"
)

var bodyTemplate = template.Must(template.New("notification").Parse(`
<h5>{{.Signature}}</h5>
<br>
<p>{{.Message}}</p>
<br>
<h6>Best Regards</h6>
<h6>{{.Signature}}</h6>
`))

// renderBody embeds message into the fixed notification layout. Both values
// are HTML-escaped.
func renderBody(message, signature string) (string, error) {
	var b strings.Builder
	err := bodyTemplate.Execute(&b, struct {
		Message   string
		Signature string
	}{message, signature})
	return b.String(), err
}
