package contact

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

const (
	// Subject of every notification.
	Subject = "Neue Anfrage über das Kontaktformular"
	// NotGiven stands in for empty form fields.
	NotGiven = "Nicht angegeben"
)

// Submission is one contact form post.
type Submission struct {
	Name   string `json:"name"`
	Number string `json:"number"`
}

// Message is a composed notification.
type Message struct {
	From      string
	To        string
	ToName    string
	Subject   string
	HTML      string
	Submitted time.Time
}

// Mailer delivers a message.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

var (
	germanWeekdays = [...]string{
		"Sonntag", "Montag", "Dienstag", "Mittwoch",
		"Donnerstag", "Freitag", "Samstag",
	}

	germanMonths = [...]string{
		"Januar", "Februar", "März", "April", "Mai", "Juni",
		"Juli", "August", "September", "Oktober", "November", "Dezember",
	}
)

// FormatGermanDate writes t the way German locales spell out a long date
// with time, e.g. "Freitag, 16. Oktober 2026 um 09:05".
func FormatGermanDate(t time.Time) string {
	return fmt.Sprintf("%s, %d. %s %d um %02d:%02d",
		germanWeekdays[t.Weekday()], t.Day(), germanMonths[t.Month()-1], t.Year(),
		t.Hour(), t.Minute())
}

type bodyData struct {
	Recipient string
	Name      string
	Number    string
	Received  string
	Year      int
}

var bodyTemplate = template.Must(template.New("body").Parse(`<!DOCTYPE html>
<html lang="de">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <title>Neue Kontaktanfrage</title>
  <style>
    body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f5f5f5; padding: 20px; line-height: 1.6; }
    .email-container { max-width: 600px; margin: 0 auto; background-color: #ffffff; border-radius: 12px; overflow: hidden; }
    .header { background: linear-gradient(135deg, #667eea 0%, #764ba2 100%); color: white; padding: 30px 20px; text-align: center; }
    .content { padding: 30px 20px; }
    .info-section { background-color: #f8f9fa; border-radius: 8px; padding: 20px; margin: 20px 0; border-left: 4px solid #667eea; }
    .info-label { font-weight: 600; color: #555555; min-width: 100px; margin-right: 10px; }
    .info-value { color: #333333; background-color: #e9ecef; padding: 8px 12px; border-radius: 6px; }
    .timestamp { background-color: #e8f4f8; padding: 15px; border-radius: 8px; margin: 20px 0; text-align: center; font-size: 14px; color: #666666; }
    .footer { background-color: #f8f9fa; padding: 20px; text-align: center; border-top: 1px solid #e9ecef; font-size: 12px; color: #666666; }
  </style>
</head>
<body>
  <div class="email-container">
    <div class="header">
      <h1>📧 Neue Kontaktanfrage</h1>
      <p>Sie haben eine neue Nachricht über Ihr Kontaktformular erhalten</p>
    </div>
    <div class="content">
      <div class="greeting">Hallo {{.Recipient}},</div>
      <p>Sie haben eine neue Kontaktanfrage über Ihr Website-Formular erhalten. Hier sind die Details:</p>
      <div class="info-section">
        <div class="info-title">👤 Kontaktinformationen</div>
        <div class="info-item">
          <span class="info-label">🏷️ Name:</span>
          <span class="info-value">{{.Name}}</span>
        </div>
        <div class="info-item">
          <span class="info-label">📞 Telefon:</span>
          <span class="info-value">{{.Number}}</span>
        </div>
      </div>
      <div class="timestamp"><strong>📅 Eingegangen am:</strong> {{.Received}}</div>
      <p>Diese E-Mail wurde automatisch von Ihrem Website-Kontaktformular generiert.</p>
    </div>
    <div class="footer">
      <p>© {{.Year}} Ihr Website-Kontaktformular</p>
      <p>Diese E-Mail wurde automatisch generiert.</p>
    </div>
  </div>
</body>
</html>
`))

// Compose builds the notification for a submission received at now.
func Compose(cfg Config, sub Submission, now time.Time) (Message, error) {
	data := bodyData{
		Recipient: cfg.RecipientName,
		Name:      orNotGiven(sub.Name),
		Number:    orNotGiven(sub.Number),
		Received:  FormatGermanDate(now),
		Year:      now.Year(),
	}

	var buf bytes.Buffer
	if err := bodyTemplate.Execute(&buf, data); err != nil {
		return Message{}, errors.Wrap(err, "failed to render mail body")
	}

	return Message{
		From:      cfg.Email,
		To:        cfg.Recipient,
		ToName:    cfg.RecipientName,
		Subject:   Subject,
		HTML:      buf.String(),
		Submitted: now,
	}, nil
}

func orNotGiven(s string) string {
	if s == "" {
		return NotGiven
	}
	return s
}

// SMTPMailer sends over SMTP with plain auth.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

func NewSMTPMailer(cfg Config) (*SMTPMailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Email, cfg.Password),
	}, nil
}

// Send delivers msg with a single attempt. ctx is only checked before
// dialing since the transport has no cancellation.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", gm.FormatAddress(msg.To, msg.ToName))
	gm.SetHeader("Subject", msg.Subject)
	gm.SetDateHeader("Date", msg.Submitted)
	gm.SetBody("text/html", msg.HTML)

	if err := m.dialer.DialAndSend(gm); err != nil {
		return errors.Wrap(err, "failed to send mail")
	}

	return nil
}
