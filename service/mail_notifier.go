package application

import (
	"context"
	"fmt"

	"github.com/cadupuy/airbnb-backend/domain"
	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// MailNotifier greets new accounts by email.
type MailNotifier struct {
	dialer *gomail.Dialer
	from   string
	logger *logrus.Logger
}

func NewMailNotifier(host string, port int, email, password string, logger *logrus.Logger) *MailNotifier {
	return &MailNotifier{
		dialer: gomail.NewDialer(host, port, email, password),
		from:   email,
		logger: logger,
	}
}

func (notifier *MailNotifier) AccountCreated(ctx context.Context, account *domain.Account) error {
	message := welcomeMessage(notifier.from, account)

	if err := notifier.dialer.DialAndSend(message); err != nil {
		return fmt.Errorf("sending welcome mail: %w", err)
	}
	notifier.logger.WithField("account", account.ID.Hex()).Info("welcome mail sent")
	return nil
}

func welcomeMessage(from string, account *domain.Account) *gomail.Message {
	message := gomail.NewMessage()
	message.SetHeader("From", from)
	message.SetHeader("To", account.Email)
	message.SetHeader("Subject", "Welcome to airbnb")

	body := fmt.Sprintf("Hello %s,\n\nyour account is ready. You can now publish your first room.", account.Account.Username)
	message.SetBody("text/plain", body)
	return message
}

// NopNotifier is used when no mail server is configured.
type NopNotifier struct{}

func (NopNotifier) AccountCreated(ctx context.Context, account *domain.Account) error {
	return nil
}
