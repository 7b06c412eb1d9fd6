package client

import (
	"context"
	"fmt"
	"time"

	"digital-key-store/internal/model"

	"github.com/go-resty/resty/v2"
)

type WebhookClient interface {
	SendKeys(ctx context.Context, delivery *model.KeyDelivery) error
}

type webhookClientImpl struct {
	httpClient *resty.Client
	url        string
}

// NewWebhookClient posts every key delivery as JSON to url.
func NewWebhookClient(url string) WebhookClient {
	return &webhookClientImpl{
		httpClient: resty.New().SetTimeout(15 * time.Second),
		url:        url,
	}
}

func (c *webhookClientImpl) SendKeys(ctx context.Context, delivery *model.KeyDelivery) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(delivery).
		Post(c.url)
	if err != nil {
		return fmt.Errorf("webhook request: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("webhook error %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
