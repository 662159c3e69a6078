package gateways

import "context"

// Event names published on the domain event stream.
const (
	EventRatesRefreshed       = "rates.refreshed"
	EventTransactionCreated   = "transaction.created"
	EventInvoiceCreated       = "invoice.created"
	EventTransactionsImported = "transactions.imported"
)

// EventPublisher emits domain events. Publishing is best-effort; callers log failures
// and carry on.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, key string, payload any) error
	Close() error
}
