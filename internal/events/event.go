package events

import (
	"context"
	"time"
)

const (
	EventStorageChanged   = "StorageChanged"
	EventStoreNameChanged = "StoreNameChanged"
)

// Event is a storefront signal. Session and Key identify the storage slot that changed;
// Value carries the new store name for StoreNameChanged.
type Event struct {
	Name          string
	Session       string
	Key           string
	Value         string
	Producer      string
	CorrelationID string
	OccurredAt    time.Time
}

type Handler func(ctx context.Context, ev Event)

type Bus interface {
	Publish(ctx context.Context, ev Event) error
	Subscribe(name string, h Handler)
}

type ctxKey string

const ctxCorrelationID ctxKey = "correlation_id"

func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxCorrelationID, id)
}

func CorrelationID(ctx context.Context) string {
	if v := ctx.Value(ctxCorrelationID); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
