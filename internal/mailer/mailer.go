package mailer

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strings"

	"github.com/GregMSThompson/money-tracker/internal/errs"
	"github.com/GregMSThompson/money-tracker/pkg/logger"
)

// SMTPConfig describes the relay used to deliver sign-in links.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

type smtpSender struct {
	cfg  SMTPConfig
	dial func(ctx context.Context, network, addr string) (net.Conn, error)
}

func NewSMTPSender(cfg SMTPConfig) *smtpSender {
	var d net.Dialer
	return &smtpSender{cfg: cfg, dial: d.DialContext}
}

func (s *smtpSender) SendSignInLink(ctx context.Context, email, link string) error {
	log := logger.FromContext(ctx)

	if err := s.send(ctx, email, signInMessage(s.cfg.From, email, link)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %v", ctxErr, err)
		}
		log.Error("failed to send sign-in link", "error", err)
		return errs.NewExternalServiceError("smtp", "failed to send sign-in email", true, err)
	}
	log.Info("sign-in link sent")
	return nil
}

// send runs one SMTP exchange. The connection is closed when ctx ends, so a
// stalled relay fails the call instead of outliving the request.
func (s *smtpSender) send(ctx context.Context, to string, msg []byte) error {
	conn, err := s.dial(ctx, "tcp", net.JoinHostPort(s.cfg.Host, s.cfg.Port))
	if err != nil {
		return err
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	c, err := smtp.NewClient(conn, s.cfg.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err := c.StartTLS(&tls.Config{ServerName: s.cfg.Host}); err != nil {
			return err
		}
	}
	if s.cfg.Username != "" {
		if ok, _ := c.Extension("AUTH"); !ok {
			return errors.New("smtp: server doesn't support AUTH")
		}
		if err := c.Auth(smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)); err != nil {
			return err
		}
	}
	if err := c.Mail(s.cfg.From); err != nil {
		return err
	}
	if err := c.Rcpt(to); err != nil {
		return err
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return c.Quit()
}

func signInMessage(from, to, link string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	b.WriteString("Subject: Your sign-in link\r\n")
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString("Use the link below to sign in. It expires shortly and works once.\r\n\r\n")
	b.WriteString(link)
	b.WriteString("\r\n")
	return []byte(b.String())
}

// logSender writes the link to the log instead of mailing it. Local use only.
type logSender struct{}

func NewLogSender() *logSender {
	return &logSender{}
}

func (logSender) SendSignInLink(ctx context.Context, email, link string) error {
	logger.FromContext(ctx).Warn("smtp not configured, sign-in link logged", "email", email, "link", link)
	return nil
}
