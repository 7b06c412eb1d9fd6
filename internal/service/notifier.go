package service

import (
	"context"
	"errors"
	"fmt"

	"digital-key-store/internal/model"
)

var ErrNotificationFailure = errors.New("notification failure")

// KeySender is one delivery channel (SMTP, webhook).
type KeySender interface {
	SendKeys(ctx context.Context, delivery *model.KeyDelivery) error
}

type Notifier interface {
	Notify(ctx context.Context, delivery *model.KeyDelivery) error
}

type notifierImpl struct {
	senders []KeySender
}

// NewNotifier tries every sender once. No retry, no queue.
func NewNotifier(senders ...KeySender) Notifier {
	return &notifierImpl{
		senders: senders,
	}
}

func (n *notifierImpl) Notify(ctx context.Context, delivery *model.KeyDelivery) error {
	var errs []error
	for _, sender := range n.senders {
		if err := sender.SendKeys(ctx, delivery); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotificationFailure, errors.Join(errs...))
	}
	return nil
}
