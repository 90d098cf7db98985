package mail

import (
	"crypto/tls"
	"fmt"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/gatehouse/gatehouse/config"
)

// Mailer sends transactional mail over SMTP. Sends are synchronous:
// registration fails if the verification code cannot be delivered, so
// the caller needs the error.
type Mailer struct {
	cfg config.Smtp
}

func New(cfg config.Smtp) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("mail: smtp host is required")
	}
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return nil, fmt.Errorf("mail: invalid smtp port %d", cfg.Port)
	}
	return &Mailer{cfg: cfg}, nil
}

func (m *Mailer) auth() smtp.Auth {
	switch m.cfg.AuthMethod {
	case "cram-md5":
		return smtp.CRAMMD5Auth(m.cfg.Username, m.cfg.Password)
	case "plain":
		return smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	default:
		return nil
	}
}

func (m *Mailer) newMessage() (*mailyak.MailYak, error) {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	if m.cfg.UseTLS {
		mail, err := mailyak.NewWithTLS(addr, m.auth(), &tls.Config{
			ServerName: m.cfg.Host,
			MinVersion: tls.VersionTLS12,
		})
		if err != nil {
			return nil, fmt.Errorf("mail: tls setup: %w", err)
		}
		return mail, nil
	}

	// mailyak upgrades via STARTTLS on its own when the server offers it.
	return mailyak.New(addr, m.auth()), nil
}

// SendVerificationCode mails the one-time code a user must enter to
// activate their account. The code is short-lived; the mail says so.
func (m *Mailer) SendVerificationCode(email, code string) error {
	mail, err := m.newMessage()
	if err != nil {
		return err
	}

	mail.To(email)
	mail.From(m.cfg.FromAddress)
	mail.FromName(m.cfg.FromName)
	if m.cfg.LocalName != "" {
		mail.LocalName(m.cfg.LocalName)
	}
	mail.Subject("Verify Your Email")
	mail.Plain().Set(fmt.Sprintf("Your verification code is: %s", code))
	mail.HTML().Set(fmt.Sprintf(
		"<p>Please use the following code to verify your email: <strong>%s</strong></p>"+
			"<p>The code expires in 24 hours.</p>", code))

	if err := mail.Send(); err != nil {
		return fmt.Errorf("mail: send verification code: %w", err)
	}
	return nil
}
