package bulk

import (
	"context"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UploadRepository persists the upload log
type UploadRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Upload, error)
	// FindAll lists uploads newest first. Filters: warehouse_id, status.
	FindAll(ctx context.Context, filter shared.Filter) ([]Upload, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, upload *Upload) error
}
