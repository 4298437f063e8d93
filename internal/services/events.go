package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Catalog event routing keys.
const (
	EventImportCompleted = "catalog.import.completed"
	EventExportCompleted = "catalog.export.completed"
	EventProductCreated  = "catalog.product.created"
	EventProductUpdated  = "catalog.product.updated"
	EventProductDeleted  = "catalog.product.deleted"
)

// EventPublisher delivers catalog events to a broker.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, payload interface{}) error
}

// CatalogEvent is the body of every published catalog event.
type CatalogEvent struct {
	ID         string      `json:"id"`
	Type       string      `json:"type"`
	OccurredAt time.Time   `json:"occurredAt"`
	Data       interface{} `json:"data"`
}

// publishEvent is best effort: a broker failure is logged and never fails the caller.
func publishEvent(ctx context.Context, pub EventPublisher, logger zerolog.Logger, routingKey string, data interface{}) {
	if pub == nil {
		return
	}
	event := CatalogEvent{
		ID:         uuid.NewString(),
		Type:       routingKey,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
	if err := pub.Publish(ctx, routingKey, event); err != nil {
		logger.Warn().Err(err).Str("event", routingKey).Msg("failed to publish catalog event")
	}
}
