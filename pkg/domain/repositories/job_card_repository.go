package repositories

import (
	"context"

	"github.com/vsinha/slitter/pkg/domain/entities"
)

// JobCardRepository provides access to slitting job cards and their ledgers
type JobCardRepository interface {
	GetJobCard(ctx context.Context, id string) (*entities.JobCard, error)
	GetAllJobCards(ctx context.Context) ([]*entities.JobCard, error)
	SaveJobCard(ctx context.Context, job *entities.JobCard) error
}
