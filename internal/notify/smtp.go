// Package notify sends best-effort outbound messages. Failures are for the
// caller to log, never to propagate into settlement.
package notify

import (
	"fmt"
	"net/smtp"
)

type Notifier interface {
	Send(to, subject, body string) error
}

type SMTP struct {
	addr string
	from string
}

func NewSMTP(addr, from string) *SMTP {
	return &SMTP{addr: addr, from: from}
}

func (s *SMTP) Send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s",
		s.from, to, subject, body)
	return smtp.SendMail(s.addr, nil, s.from, []string{to}, []byte(msg))
}
