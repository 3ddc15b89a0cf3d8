package sheets

import (
	"context"

	"chickenkeeper/internal/amqp"
)

// Ports for outbound adapters.
type (
	// LedgerWriter appends one ledger entry to the export destination and
	// returns a reference to the written row.
	LedgerWriter interface {
		Append(ctx context.Context, entry amqp.LedgerEntryMessage) (rowRef string, err error)
	}
)
