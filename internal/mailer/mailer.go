// Package mailer delivers magic-link login mail over SMTP.  In the dev
// environment no mail is sent; the message is logged instead so the link
// can be followed straight from the server output.
package mailer

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"
	"time"
)

// Mailer holds SMTP connection settings.  Username and Password are
// optional; when Username is empty the mailer connects without
// authentication (typical for a localhost relay).
type Mailer struct {
	Host     string
	Port     string
	From     string
	Username string
	Password string
	DevMode  bool
}

// New returns a Mailer with the given settings.  devMode short-circuits
// delivery to a log line.
func New(host, port, from, username, password string, devMode bool) *Mailer {
	return &Mailer{Host: host, Port: port, From: from, Username: username, Password: password, DevMode: devMode}
}

// SendLoginLink emails a one-time login link for a lecture to the given
// address.
func (m *Mailer) SendLoginLink(to, lecture, link string) error {
	subject := fmt.Sprintf("Your login link for %s", lecture)
	body := strings.Join([]string{
		"Hello,",
		"",
		fmt.Sprintf("use the following link to sign in and reserve a seat for %s:", lecture),
		"",
		link,
		"",
		"The link is valid for a short time and for a single sign-in.",
		"If you did not request it, you can ignore this mail.",
	}, "\r\n")
	return m.send(to, subject, body)
}

func (m *Mailer) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nDate: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		m.From, to, subject, time.Now().UTC().Format(time.RFC1123Z), body)

	if m.DevMode {
		log.Printf("mailer: dev mode, not sending. This mail would have been sent:\n%s", msg)
		return nil
	}
	var auth smtp.Auth
	if m.Username != "" {
		auth = smtp.PlainAuth("", m.Username, m.Password, m.Host)
	}
	addr := m.Host + ":" + m.Port
	if err := smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg)); err != nil {
		return fmt.Errorf("smtp send to %s: %w", to, err)
	}
	return nil
}
