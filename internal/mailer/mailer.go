package mailer

import (
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"eventdesk/internal/model"
)

type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromName  string
	FromEmail string
}

type Message struct {
	To      string
	ReplyTo string
	Subject string
	HTML    string
}

type Sender interface {
	Send(msg Message) error
}

type SMTPSender struct {
	dialer *gomail.Dialer
	cfg    Config
	log    *zerolog.Logger
}

func NewSMTPSender(cfg Config, log *zerolog.Logger) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		cfg:    cfg,
		log:    log,
	}
}

// Send delivers msg from the configured sender address. The organizer's own
// address goes into Reply-To.
func (s *SMTPSender) Send(msg Message) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.cfg.FromEmail, s.cfg.FromName)
	m.SetHeader("To", msg.To)
	if msg.ReplyTo != "" {
		m.SetHeader("Reply-To", msg.ReplyTo)
	}
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.log.Warn().Err(err).Str("to", msg.To).Msg("failed to send email")
		return fmt.Errorf("send email: %w", err)
	}

	s.log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email sent")
	return nil
}

// Vars are the values available to confirmation email placeholders.
type Vars struct {
	EventTitle       string
	EventLocation    string
	EventDate        string
	TicketNumber     string
	ParticipantEmail string
}

// Render replaces {{event_title}}, {{event_location}}, {{event_date}},
// {{ticket_number}} and {{participant_email}} in tpl. Values are HTML
// escaped; unknown placeholders are left as written.
func Render(tpl string, v Vars) string {
	return strings.NewReplacer(
		"{{event_title}}", html.EscapeString(v.EventTitle),
		"{{event_location}}", html.EscapeString(v.EventLocation),
		"{{event_date}}", html.EscapeString(v.EventDate),
		"{{ticket_number}}", html.EscapeString(v.TicketNumber),
		"{{participant_email}}", html.EscapeString(v.ParticipantEmail),
	).Replace(tpl)
}

// Confirmation builds the registration confirmation for reg from the
// organizer's template on e.
func Confirmation(e *model.Event, reg *model.Registration) Message {
	vars := Vars{
		EventTitle:       e.Title,
		EventLocation:    e.Location,
		EventDate:        e.PrimaryEventDate.String(),
		TicketNumber:     reg.TicketNumber,
		ParticipantEmail: reg.Email,
	}
	tpl := e.ConfirmationEmail.V
	return Message{
		To:      reg.Email,
		ReplyTo: tpl.From,
		// Subjects are plain text, so only the body gets escaped values.
		Subject: strings.NewReplacer(
			"{{event_title}}", vars.EventTitle,
			"{{ticket_number}}", vars.TicketNumber,
		).Replace(tpl.Subject),
		HTML: Render(tpl.HTMLBody, vars),
	}
}
