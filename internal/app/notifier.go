package app

import (
	"digital-key-store/internal/client"
	"digital-key-store/internal/config"
	"digital-key-store/internal/service"
)

// NewNotifier always mails the buyer and additionally posts to the
// webhook when one is configured.
func NewNotifier(cfg *config.Config) service.Notifier {
	senders := []service.KeySender{client.NewMailClient(&cfg.Email)}
	if cfg.WebhookURL != "" {
		senders = append(senders, client.NewWebhookClient(cfg.WebhookURL))
	}
	return service.NewNotifier(senders...)
}
