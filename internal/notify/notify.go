// Package notify delivers rendered BOQ reports by email.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/dgallion1/cadboq/internal/report"
	"github.com/domodwyer/mailyak/v3"
)

// Delivery is one report addressed to one recipient.
type Delivery struct {
	To          string
	AccessToken string // OAuth token, Gmail backend only
	Report      *report.Report
}

// Sender sends a delivery and returns the provider's message ID.
type Sender interface {
	Send(ctx context.Context, d Delivery) (string, error)
	// Accepts reports whether d carries enough to be sent by this backend.
	Accepts(d Delivery) bool
}

// Result is the delivery outcome reported back to API callers.
type Result struct {
	Sent      bool   `json:"sent"`
	MessageID string `json:"message_id,omitempty"`
	Error     string `json:"error,omitempty"`
}

// RetryableError indicates a transient failure that can be retried.
type RetryableError struct {
	StatusCode int
	Message    string
}

func (e *RetryableError) Error() string {
	return fmt.Sprintf("retryable error (status %d): %s", e.StatusCode, truncate(e.Message, 200))
}

// Subject is the mail subject for a report on the named drawing.
func Subject(source string) string {
	return "Your BOQ Report — " + filepath.Base(source)
}

// BuildMessage renders the report into a multipart MIME message with an
// HTML body, a plain-text alternative and the XLSX report attached.
func BuildMessage(from string, d Delivery) ([]byte, error) {
	m := mailyak.New("", nil)
	if err := compose(m, from, d); err != nil {
		return nil, err
	}
	buf, err := m.MimeBuf()
	if err != nil {
		return nil, fmt.Errorf("build mime: %w", err)
	}
	return buf.Bytes(), nil
}

func compose(m *mailyak.MailYak, from string, d Delivery) error {
	if d.Report == nil {
		return fmt.Errorf("no report to send")
	}
	if d.To == "" {
		return fmt.Errorf("no recipient")
	}
	if from == "" {
		from = d.To
	}

	html, err := report.HTML(d.Report)
	if err != nil {
		return fmt.Errorf("render html body: %w", err)
	}
	text, err := report.Text(d.Report)
	if err != nil {
		return fmt.Errorf("render text body: %w", err)
	}
	sheet, err := report.XLSX(d.Report)
	if err != nil {
		return fmt.Errorf("render attachment: %w", err)
	}

	m.To(d.To)
	m.From(from)
	m.FromName("CAD to BOQ")
	m.Subject(Subject(d.Report.Source))
	m.HTML().Set(string(html))
	m.Plain().Set(string(text))
	m.AttachWithMimeType(d.Report.FileName(report.FormatXLSX), bytes.NewReader(sheet), report.FormatXLSX.ContentType())
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
