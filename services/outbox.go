package services

import (
	"context"
	"encoding/json"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
)

// appendEvent marshals payload and writes it to the outbox within ctx's unit of work.
func appendEvent(ctx context.Context, outbox repository.OutboxRepository, eventType, aggregateID string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return outbox.Append(ctx, &models.OutboxEvent{
		EventType:   eventType,
		AggregateID: aggregateID,
		Payload:     data,
	})
}
