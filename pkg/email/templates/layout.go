package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// layout wraps body in the shared email chrome.
func layout(title, siteURL string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>`+
			templ.EscapeString(title)+
			`</title></head><body style="font-family:sans-serif;color:#222;max-width:560px;margin:0 auto;padding:24px">`); err != nil {
			return err
		}
		if err := body.Render(ctx, w); err != nil {
			return err
		}
		footer := `<hr style="border:none;border-top:1px solid #ddd;margin-top:32px">`
		if siteURL != "" {
			footer += `<p style="font-size:12px;color:#888"><a href="` + templ.EscapeString(siteURL) + `">` + templ.EscapeString(siteURL) + `</a></p>`
		}
		_, err := io.WriteString(w, footer+`</body></html>`)
		return err
	})
}

func paragraph(w io.Writer, text string) error {
	_, err := io.WriteString(w, `<p>`+templ.EscapeString(text)+`</p>`)
	return err
}

func button(w io.Writer, label, href string) error {
	_, err := io.WriteString(w, `<p><a href="`+templ.EscapeString(href)+
		`" style="display:inline-block;padding:10px 18px;background:#222;color:#fff;text-decoration:none;border-radius:6px">`+
		templ.EscapeString(label)+`</a></p>`)
	return err
}
