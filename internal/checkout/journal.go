// internal/checkout/journal.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"mudahpos/internal/eventstore"
)

const (
	aggregateType          = "checkout"
	eventCheckoutRequested = "CheckoutRequested"
)

// EventAppender is the journal write the Journal forwarder needs.
type EventAppender interface {
	AppendEvents(ctx context.Context, aggregateID uuid.UUID, aggregateType string, expectedVersion int, events []eventstore.Event) error
}

// Journal records each request as the first event of its own aggregate.
type Journal struct {
	store EventAppender
}

func NewJournal(store EventAppender) *Journal {
	return &Journal{store: store}
}

func (j *Journal) Forward(ctx context.Context, req Request) error {
	data, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	event := eventstore.Event{
		AggregateID:   req.ID,
		AggregateType: aggregateType,
		EventType:     eventCheckoutRequested,
		EventData:     data,
		Metadata:      map[string]string{"session_id": req.SessionID.String()},
		Version:       1,
	}
	if err := j.store.AppendEvents(ctx, req.ID, aggregateType, 0, []eventstore.Event{event}); err != nil {
		return fmt.Errorf("failed to append event: %w", err)
	}
	return nil
}
