package client

import (
	"context"
	"fmt"
	"html"
	"strings"

	"digital-key-store/internal/config"
	"digital-key-store/internal/model"

	"gopkg.in/gomail.v2"
)

type MailClient interface {
	SendKeys(ctx context.Context, delivery *model.KeyDelivery) error
}

type mailClientImpl struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailClient(emailCfg *config.Email) MailClient {
	return &mailClientImpl{
		dialer: gomail.NewDialer(emailCfg.SMTPHost, emailCfg.SMTPPort, emailCfg.User, emailCfg.Pass),
		from:   fmt.Sprintf("%q <%s>", emailCfg.FromName, emailCfg.User),
	}
}

func (c *mailClientImpl) SendKeys(ctx context.Context, delivery *model.KeyDelivery) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := BuildKeysMessage(c.from, delivery)
	if err := c.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send to %s: %w", delivery.Email, err)
	}
	return nil
}

// BuildKeysMessage renders the key delivery email with a plain text body
// and an HTML alternative. Keys keep their allocation order.
func BuildKeysMessage(from string, delivery *model.KeyDelivery) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", delivery.Email)
	m.SetHeader("Subject", KeysSubject(delivery.OrderID))
	m.SetBody("text/plain", KeysText(delivery))
	m.AddAlternative("text/html", KeysHTML(delivery))
	return m
}

func KeysSubject(orderID string) string {
	return "Your keys for order " + orderID
}

func KeysText(delivery *model.KeyDelivery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thank you, here are the keys for order %s:\n", delivery.OrderID)
	for _, k := range delivery.Keys {
		fmt.Fprintf(&b, "- %s\n", k)
	}
	b.WriteString("\nDo not share these keys.")
	return b.String()
}

func KeysHTML(delivery *model.KeyDelivery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>Thank you, here are the keys for order <b>%s</b>:</p><ul>", html.EscapeString(delivery.OrderID))
	for _, k := range delivery.Keys {
		fmt.Fprintf(&b, "<li><code>%s</code></li>", html.EscapeString(k))
	}
	b.WriteString("</ul><p>Do not share these keys.</p>")
	return b.String()
}
