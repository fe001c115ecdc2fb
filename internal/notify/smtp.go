package notify

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"html/template"
	"mime"
	"mime/multipart"
	"mime/quotedprintable"
	"net"
	"net/mail"
	"net/smtp"
	"net/textproto"
	"strconv"
	"strings"
	"time"

	"github.com/portfolio/backend/internal/model"
)

const (
	implicitTLSPort = 465
	senderName      = "Portfolio Contact Form"
	defaultTimeout  = 10 * time.Second
)

// sendFunc は組み立て済みのメッセージを送信する
type sendFunc func(ctx context.Context, cfg SMTPConfig, from string, to []string, msg []byte) error

// SMTPNotifier sends one plain-text + HTML email per submission.
type SMTPNotifier struct {
	cfg  SMTPConfig
	send sendFunc
	now  func() time.Time
}

// Ensure SMTPNotifier implements Notifier at compile time.
var _ Notifier = (*SMTPNotifier)(nil)

// NewSMTPNotifier creates an SMTPNotifier. Port 465 uses implicit TLS;
// any other port upgrades with STARTTLS when the server offers it.
func NewSMTPNotifier(cfg SMTPConfig) *SMTPNotifier {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	if cfg.To == "" {
		cfg.To = cfg.Username
	}
	if cfg.Port == 0 {
		cfg.Port = implicitTLSPort
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &SMTPNotifier{cfg: cfg, send: sendSMTP, now: time.Now}
}

// Notify sends the notification, bounded by the configured timeout.
func (n *SMTPNotifier) Notify(ctx context.Context, sub model.ContactSubmission) error {
	ctx, cancel := context.WithTimeout(ctx, n.cfg.Timeout)
	defer cancel()

	msg, err := buildMessage(n.cfg, sub, n.now())
	if err != nil {
		return fmt.Errorf("notify: build message: %w", err)
	}
	if err := n.send(ctx, n.cfg, n.cfg.From, []string{n.cfg.To}, msg); err != nil {
		return fmt.Errorf("notify: send via %s: %w", net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port)), err)
	}
	return nil
}

var htmlBody = template.Must(template.New("notification").Parse(`<h2>New Contact Form Submission</h2>
<p><strong>Name:</strong> {{.Name}}</p>
<p><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></p>
<p><strong>Message:</strong></p>
<p>{{range $i, $line := .Lines}}{{if $i}}<br>{{end}}{{$line}}{{end}}</p>
<p><small>Submission {{.ID}} at {{.Timestamp}}</small></p>
`))

// headerSafe はヘッダー行を分割できる文字を取り除く
func headerSafe(s string) string {
	return strings.NewReplacer("\r", "", "\n", " ").Replace(s)
}

// ErrAuthUnsupported is returned when the server does not offer AUTH, so the
// configured credentials cannot be used.
var ErrAuthUnsupported = errors.New("server does not advertise AUTH")

func buildMessage(cfg SMTPConfig, sub model.ContactSubmission, now time.Time) ([]byte, error) {
	if cfg.From == "" {
		cfg.From = cfg.Username
	}
	name := headerSafe(sub.Name)
	email := headerSafe(sub.Email)
	ts := sub.SubmittedAt.UTC().Format(time.RFC3339)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	headers := []struct{ key, value string }{
		{"From", (&mail.Address{Name: senderName, Address: headerSafe(cfg.From)}).String()},
		{"To", headerSafe(cfg.To)},
		{"Reply-To", (&mail.Address{Name: name, Address: email}).String()},
		{"Subject", mime.QEncoding.Encode("utf-8", "New Contact Form Submission from "+name)},
		{"Date", now.Format(time.RFC1123Z)},
		{"MIME-Version", "1.0"},
		{"Content-Type", "multipart/alternative; boundary=" + mw.Boundary()},
	}
	var head bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&head, "%s: %s\r\n", h.key, h.value)
	}
	head.WriteString("\r\n")

	text := fmt.Sprintf("You have received a new message from your portfolio website:\n\n"+
		"Name: %s\nEmail: %s\nMessage:\n%s\n\nSubmission ID: %s\nTimestamp: %s\n",
		sub.Name, sub.Email, sub.Message, sub.ID, ts)
	if err := writePart(mw, "text/plain; charset=UTF-8", []byte(text)); err != nil {
		return nil, err
	}

	var html bytes.Buffer
	err := htmlBody.Execute(&html, struct {
		ID, Name, Email, Timestamp string
		Lines                      []string
	}{sub.ID, sub.Name, sub.Email, ts, strings.Split(sub.Message, "\n")})
	if err != nil {
		return nil, err
	}
	if err := writePart(mw, "text/html; charset=UTF-8", html.Bytes()); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}
	return append(head.Bytes(), buf.Bytes()...), nil
}

func writePart(mw *multipart.Writer, contentType string, body []byte) error {
	pw, err := mw.CreatePart(textproto.MIMEHeader{
		"Content-Type":              {contentType},
		"Content-Transfer-Encoding": {"quoted-printable"},
	})
	if err != nil {
		return err
	}
	qp := quotedprintable.NewWriter(pw)
	if _, err := qp.Write(body); err != nil {
		return err
	}
	return qp.Close()
}

// sendSMTP は ctx の期限内で新しい SMTP セッションを張って msg を送る
func sendSMTP(ctx context.Context, cfg SMTPConfig, from string, to []string, msg []byte) error {
	addr := net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port))
	tlsConfig := &tls.Config{ServerName: cfg.Host, MinVersion: tls.VersionTLS12}

	var (
		conn net.Conn
		err  error
	)
	if cfg.Port == implicitTLSPort {
		d := &tls.Dialer{Config: tlsConfig}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return err
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	c, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		_ = conn.Close()
		return err
	}
	defer c.Close()

	if cfg.Port != implicitTLSPort {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(tlsConfig); err != nil {
				return err
			}
		}
	}
	// 認証情報があるのに AUTH が無い場合は未認証で送らずエラーにする
	if ok, _ := c.Extension("AUTH"); !ok {
		return ErrAuthUnsupported
	}
	if err := c.Auth(smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)); err != nil {
		return err
	}
	if err := c.Mail(from); err != nil {
		return err
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return err
		}
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
