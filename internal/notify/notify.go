// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify delivers the run summary email with the report attached.
package notify

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"os"
	"strings"

	"github.com/wneessen/go-mail"

	"github.com/pdiddy/startup-scout/pkg/types"
)

// bodyTemplate renders the HTML email body from the run's ledger row.
var bodyTemplate = template.Must(template.New("body").Parse(
	`<html>
<body>
<h2>Startup Scout run {{.RunID}}</h2>
<p>Run date: {{.RunDate.Format "2006-01-02 15:04 MST"}}</p>
<p>Status: <strong>{{.Status}}</strong></p>
<table border="1" cellpadding="6" cellspacing="0">
  <tr><th>Total startups</th><td>{{.TotalStartupsFound}}</td></tr>
  <tr><th>Tier 1</th><td>{{.Tier1Count}}</td></tr>
  <tr><th>Tier 2</th><td>{{.Tier2Count}}</td></tr>
  <tr><th>Tier 3</th><td>{{.Tier3Count}}</td></tr>
  <tr><th>Processing time</th><td>{{printf "%.1f" .ProcessingTimeSeconds}}s</td></tr>
</table>
{{if .ReportPath}}<p>Full report attached.</p>{{end}}
</body>
</html>`))

// BuildHTML renders the notification email body for a run.
func BuildHTML(run types.RunMetadata) (string, error) {
	var b strings.Builder
	if err := bodyTemplate.Execute(&b, run); err != nil {
		return "", fmt.Errorf("rendering email body: %w", err)
	}
	return b.String(), nil
}

// Send emails the run summary to the configured recipients, attaching
// the report files that exist. A notification failure is reported to the
// caller but should never fail the run.
func Send(ctx context.Context, cfg types.NotifyConfig, run types.RunMetadata, attachments []string, w io.Writer) error {
	if !cfg.Configured() {
		return fmt.Errorf("notification not configured: sender, password, and recipients are required")
	}

	body, err := BuildHTML(run)
	if err != nil {
		return err
	}

	msg := mail.NewMsg()
	if err := msg.From(cfg.Sender); err != nil {
		return fmt.Errorf("invalid sender %q: %w", cfg.Sender, err)
	}
	if err := msg.To(cfg.Recipients...); err != nil {
		return fmt.Errorf("invalid recipients: %w", err)
	}
	msg.Subject(fmt.Sprintf("Startup Scout report: %s (%s)", run.RunID, run.Status))
	msg.SetBodyString(mail.TypeTextHTML, body)

	for _, path := range attachments {
		if _, err := os.Stat(path); err != nil {
			fmt.Fprintf(w, "warning: skipping missing attachment %s\n", path)
			continue
		}
		msg.AttachFile(path)
	}

	port := cfg.SMTPPort
	if port == 0 {
		port = 587
	}

	client, err := mail.NewClient(cfg.SMTPHost,
		mail.WithPort(port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Sender),
		mail.WithPassword(cfg.Password),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return fmt.Errorf("creating SMTP client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("sending notification: %w", err)
	}
	fmt.Fprintf(w, "notification sent to %s\n", strings.Join(cfg.Recipients, ", "))
	return nil
}
