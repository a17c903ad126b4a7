package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/bulk"
	"github.com/storefront/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// UploadSortFields contains allowed sort fields for the upload log
var UploadSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"completed_at": true,
	"file_name":    true,
	"status":       true,
	"total_rows":   true,
	"failed_rows":  true,
}

// GormUploadRepository implements bulk.UploadRepository using GORM
type GormUploadRepository struct {
	db *gorm.DB
}

// NewGormUploadRepository creates a new GormUploadRepository
func NewGormUploadRepository(db *gorm.DB) *GormUploadRepository {
	return &GormUploadRepository{db: db}
}

// FindByID finds an upload by ID
func (r *GormUploadRepository) FindByID(ctx context.Context, id uuid.UUID) (*bulk.Upload, error) {
	var upload bulk.Upload
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&upload).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &upload, nil
}

// FindAll lists uploads matching the filter
func (r *GormUploadRepository) FindAll(ctx context.Context, filter shared.Filter) ([]bulk.Upload, error) {
	var uploads []bulk.Upload
	query := orderAndPage(r.applyFilter(r.db.WithContext(ctx).Model(&bulk.Upload{}), filter),
		"bulk_uploads", filter, UploadSortFields, "created_at")
	if err := query.Find(&uploads).Error; err != nil {
		return nil, err
	}
	return uploads, nil
}

// Count counts uploads matching the filter
func (r *GormUploadRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var n int64
	if err := r.applyFilter(r.db.WithContext(ctx).Model(&bulk.Upload{}), filter).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *GormUploadRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if v, ok := filter.Filters["warehouse_id"]; ok && v != nil {
		query = query.Where("bulk_uploads.warehouse_id = ?", v)
	}
	if v, ok := filter.Filters["status"]; ok && v != nil {
		query = query.Where("bulk_uploads.status = ?", v)
	}
	return query
}

// Save creates or updates an upload
func (r *GormUploadRepository) Save(ctx context.Context, upload *bulk.Upload) error {
	return r.db.WithContext(ctx).Save(upload).Error
}

var _ bulk.UploadRepository = (*GormUploadRepository)(nil)
