package email

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync/atomic"
	"time"
)

// DevSender writes every message into its own directory below dir instead of
// handing it to a provider. Used with EMAIL_DEV to preview topic emails.
//
// Layout of one message:
//
//	<dir>/<20060102-150405>-<seq>-<slug>/
//	    message.html  rendered body
//	    message.txt   plain text body, when present
//	    message.json  envelope: recipient, subject, tag, time, files
type DevSender struct {
	dir string
	now func() time.Time
	seq atomic.Uint64
}

// NewDevSender returns a sender writing below dir, created on first use.
func NewDevSender(dir string) EmailSender {
	return &DevSender{dir: dir, now: time.Now}
}

type devEnvelope struct {
	SentAt  time.Time `json:"sent_at"`
	SendTo  string    `json:"send_to"`
	Subject string    `json:"subject"`
	Tag     string    `json:"tag,omitempty"`
	Files   []string  `json:"files"`
}

func (d *DevSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToSendEmail, err)
	}

	now := d.now()
	name := params.Tag
	if name == "" {
		name = params.Subject
	}
	msgDir := filepath.Join(d.dir, fmt.Sprintf("%s-%04d-%s", now.Format("20060102-150405"), d.seq.Add(1), slug(name)))
	if err := os.MkdirAll(msgDir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrFailedToSendEmail, msgDir, err)
	}

	env := devEnvelope{
		SentAt:  now.UTC(),
		SendTo:  params.SendTo,
		Subject: params.Subject,
		Tag:     params.Tag,
	}
	bodies := []struct{ name, content string }{
		{"message.html", params.BodyHTML},
		{"message.txt", params.BodyText},
	}
	for _, b := range bodies {
		if b.content == "" {
			continue
		}
		if err := os.WriteFile(filepath.Join(msgDir, b.name), []byte(b.content), 0o644); err != nil {
			return fmt.Errorf("%w: write %s: %v", ErrFailedToSendEmail, b.name, err)
		}
		env.Files = append(env.Files, b.name)
	}

	data, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode envelope: %v", ErrFailedToSendEmail, err)
	}
	if err := os.WriteFile(filepath.Join(msgDir, "message.json"), data, 0o644); err != nil {
		return fmt.Errorf("%w: write message.json: %v", ErrFailedToSendEmail, err)
	}
	return nil
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// slug lower-cases s and collapses everything but letters and digits into
// single dashes, capped at 60 bytes.
func slug(s string) string {
	s = strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
	if len(s) > 60 {
		s = strings.TrimRight(s[:60], "-")
	}
	if s == "" {
		return "email"
	}
	return s
}
