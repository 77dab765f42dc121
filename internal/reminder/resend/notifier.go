// Package resend delivers habit reminders by email through Resend.
package resend

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/brk3/habittracker/internal/reminder"
	"github.com/resend/resend-go/v2"
)

const DefaultFrom = "onboarding@resend.dev"

const htmlTemplate = `
<p>Time for <strong>{{.HabitName}}</strong>.</p>
<p>You asked to be reminded at {{.Time}} on {{.At.Format "Monday, January 2"}}.</p>
`

var emailTmpl = template.Must(template.New("email").Parse(htmlTemplate))

type Notifier struct {
	From string
	To   string

	send func(ctx context.Context, params *resend.SendEmailRequest) error
}

func New(apiKey, from, to string) *Notifier {
	if from == "" {
		from = DefaultFrom
	}
	client := resend.NewClient(apiKey)
	return &Notifier{
		From: from,
		To:   to,
		send: func(ctx context.Context, params *resend.SendEmailRequest) error {
			_, err := client.Emails.SendWithContext(ctx, params)
			return err
		},
	}
}

func (r *Notifier) Notify(ctx context.Context, n reminder.Notification) error {
	body, err := render(n)
	if err != nil {
		return err
	}
	params := &resend.SendEmailRequest{
		From:    r.From,
		To:      []string{r.To},
		Subject: fmt.Sprintf("Reminder: %s", n.HabitName),
		Html:    body,
	}
	if err := r.send(ctx, params); err != nil {
		return fmt.Errorf("send reminder email: %w", err)
	}
	return nil
}

func render(n reminder.Notification) (string, error) {
	var buf bytes.Buffer
	if err := emailTmpl.Execute(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var _ reminder.Notifier = (*Notifier)(nil)
