// Package templates holds the email bodies as templ components.
package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// TopicEmailData is the content of the daily topic email.
type TopicEmailData struct {
	Topic    string
	ImageURL string // optional
}

// TopicEmail renders the daily topic as a minimal, inline-styled HTML email.
// All dynamic values are escaped.
func TopicEmail(data TopicEmailData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<!DOCTYPE html><html><body style="margin:0;padding:24px;background:#f4f5f7;font-family:Helvetica,Arial,sans-serif;">`+
			`<table role="presentation" width="100%" cellpadding="0" cellspacing="0"><tr><td align="center">`+
			`<table role="presentation" width="560" cellpadding="24" cellspacing="0" style="background:#ffffff;border-radius:8px;">`+
			`<tr><td><p style="margin:0 0 8px;color:#6b7280;font-size:14px;">Today&#39;s standup topic</p>`+
			`<h1 style="margin:0;color:#111827;font-size:22px;line-height:1.4;">`); err != nil {
			return err
		}
		if _, err := io.WriteString(w, templ.EscapeString(data.Topic)); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `</h1>`); err != nil {
			return err
		}
		if data.ImageURL != "" {
			src := templ.EscapeString(string(templ.URL(data.ImageURL)))
			if _, err := io.WriteString(w, `<img src="`+src+`" alt="" width="512" style="display:block;margin-top:16px;max-width:100%;border-radius:6px;">`); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</td></tr></table></td></tr></table></body></html>`)
		return err
	})
}

// TopicText is the plain text alternative of TopicEmail.
func TopicText(topic string) string {
	return "Today's topic: " + topic
}
