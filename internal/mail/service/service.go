package service

import (
	"bytes"
	"context"
	htmltemplate "html/template"
	"log/slog"
	"strings"
	texttemplate "text/template"
	"unicode"
	"unicode/utf8"

	"warehouse/internal/mail/mailer"
	dErrors "warehouse/pkg/domain-errors"
)

const DefaultSubject = "Message from Warehouse Management"

const textBody = `Hello {{.Name}},

{{.Message}}

Regards,
Warehouse Management
`

const htmlBody = `<html>
<body>
<p>Hello {{.Name}},</p>
<p>{{.Message}}</p>
<p>Regards,<br>Warehouse Management</p>
</body>
</html>`

var (
	textTmpl = texttemplate.Must(texttemplate.New("text").Parse(textBody))
	htmlTmpl = htmltemplate.Must(htmltemplate.New("html").Parse(htmlBody))
)

type SendInput struct {
	To      string
	Name    string
	Subject string
	Message string
}

// Receipt reports where a message was actually sent.
type Receipt struct {
	Recipient string `json:"recipient"`
	Subject   string `json:"subject"`
}

type Service struct {
	mailer   mailer.Mailer
	from     string
	override string
	logger   *slog.Logger
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithRecipientOverride sends every message to addr regardless of the requested recipient.
func WithRecipientOverride(addr string) Option {
	return func(s *Service) { s.override = strings.TrimSpace(addr) }
}

func New(m mailer.Mailer, from string, opts ...Option) *Service {
	s := &Service{mailer: m, from: from, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Send(ctx context.Context, in SendInput) (*Receipt, error) {
	recipient := in.To
	if s.override != "" {
		recipient = s.override
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = greetingName(in.To)
	}
	subject := strings.TrimSpace(in.Subject)
	if subject == "" {
		subject = DefaultSubject
	}

	data := struct{ Name, Message string }{Name: name, Message: in.Message}
	var text, html bytes.Buffer
	if err := textTmpl.Execute(&text, data); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render email")
	}
	if err := htmlTmpl.Execute(&html, data); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to render email")
	}

	msg := mailer.Message{
		From:    s.from,
		To:      recipient,
		Subject: subject,
		Text:    text.String(),
		HTML:    html.String(),
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to send email")
	}
	if recipient != in.To {
		s.logger.InfoContext(ctx, "email recipient overridden",
			"requested", in.To,
			"recipient", recipient,
		)
	}
	return &Receipt{Recipient: recipient, Subject: subject}, nil
}

// greetingName addresses a recipient by the first word of the mailbox name,
// so "jane.doe+invoices@example.com" is greeted as "Jane".
func greetingName(addr string) string {
	local, _, _ := strings.Cut(strings.TrimSpace(addr), "@")
	word, _, _ := strings.Cut(strings.TrimLeft(local, "._-+"), "+")
	if i := strings.IndexAny(word, "._-"); i >= 0 {
		word = word[:i]
	}
	r, size := utf8.DecodeRuneInString(word)
	if r == utf8.RuneError || unicode.IsDigit(r) {
		return "Customer"
	}
	return string(unicode.ToUpper(r)) + word[size:]
}
