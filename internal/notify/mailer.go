// Package notify sends schedule emails to partners and processes their
// replies. Confirmation state lives on route stops; every outbound email
// leaves a notification record so operators can audit what was sent.
package notify

import (
	"context"
	"log"
)

// Mailer delivers one outbound email.
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

// ConsoleMailer writes emails to the process log instead of delivering them.
// It is the development backend; production deployments swap in a real
// transport behind the same interface.
type ConsoleMailer struct {
	Logger *log.Logger
}

func (m ConsoleMailer) Send(_ context.Context, to, subject, body string) error {
	logger := m.Logger
	if logger == nil {
		logger = log.Default()
	}
	logger.Printf("email to=%s subject=%q\n%s", to, subject, body)
	return nil
}
