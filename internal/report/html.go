package report

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var page = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}} - {{.Source}}</title>
<style>
body { margin: 0; padding: 32px 16px; background: #faf7f2; color: #3d3250; font-family: Arial, 'Helvetica Neue', Helvetica, sans-serif; }
main { max-width: 720px; margin: 0 auto; background: #ffffff; border-radius: 12px; padding: 28px 32px; border: 1px solid #ece8f4; }
h1 { font-family: Georgia, 'Times New Roman', serif; font-weight: 400; color: #3d3250; }
table { border-collapse: collapse; width: 100%; font-size: 14px; }
th { background: #f8f5f0; color: #8b7ec8; font-size: 11px; text-transform: uppercase; letter-spacing: 1px; padding: 12px 8px; }
td { padding: 10px 8px; border-bottom: 1px solid #ede8f5; white-space: nowrap; }
footer { margin-top: 24px; font-size: 11px; color: #a69db4; }
</style>
</head>
<body>
<main>
{{.Body}}
<footer>Rates are estimates. Please verify before use.</footer>
</main>
</body>
</html>
`))

// HTML renders r's Markdown through goldmark into a standalone styled page.
func HTML(r *Report) ([]byte, error) {
	var body bytes.Buffer
	if err := md.Convert(Markdown(r), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}

	var out bytes.Buffer
	err := page.Execute(&out, struct {
		Title  string
		Source string
		Body   template.HTML
	}{
		Title:  Title,
		Source: r.Source,
		Body:   template.HTML(body.String()),
	})
	if err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return out.Bytes(), nil
}
