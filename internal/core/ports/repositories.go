package ports

import (
	"context"
	"time"

	"github.com/chronolab/carbondate/internal/core/domain"
)

// ResultRepository persists calibrated samples for audit and later lookup.
// Persistence is optional everywhere in the service: a nil repository means a
// stateless deployment.
type ResultRepository interface {
	SaveResult(ctx context.Context, sample domain.CalibratedSample) error
	SaveBatch(ctx context.Context, samples []domain.CalibratedSample) error
	FindByLabCode(ctx context.Context, labCode string) ([]domain.CalibratedSample, error)
	RecentResults(ctx context.Context, since time.Time, limit int) ([]domain.CalibratedSample, error)
}
