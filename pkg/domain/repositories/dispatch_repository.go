package repositories

import (
	"context"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// DispatchRepository provides access to dispatch entries.
//
// SaveDispatchEntry replaces the stored entry, line items included, as one
// write: either the whole list lands or none of it does.
type DispatchRepository interface {
	GetDispatchEntry(ctx context.Context, id string) (*entities.DispatchEntry, error)
	GetAllDispatchEntries(ctx context.Context) ([]*entities.DispatchEntry, error)
	SaveDispatchEntry(ctx context.Context, entry *entities.DispatchEntry) error
}
