package bulk

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/storefront/backend/internal/domain/shared"
)

// UploadStatus represents the status of a bulk upload
type UploadStatus string

const (
	UploadStatusProcessing UploadStatus = "processing"
	UploadStatusCompleted  UploadStatus = "completed"
	UploadStatusFailed     UploadStatus = "failed"
	UploadStatusCancelled  UploadStatus = "cancelled"
)

// IsTerminal returns true if this is a terminal state
func (s UploadStatus) IsTerminal() bool {
	return s == UploadStatusCompleted || s == UploadStatusFailed || s == UploadStatusCancelled
}

// ErrorDetail is a stored row error of an upload
type ErrorDetail struct {
	Line    int    `json:"line"`
	Article string `json:"article,omitempty"`
	Column  string `json:"column,omitempty"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Upload records one price list upload into a warehouse and its outcome
type Upload struct {
	shared.BaseAggregateRoot
	WarehouseID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Locale       string        `gorm:"type:varchar(16);not null"`
	Source       string        `gorm:"type:varchar(30);not null"`
	FileName     string        `gorm:"type:varchar(255);not null"`
	FileSize     int64         `gorm:"not null;default:0"`
	Status       UploadStatus  `gorm:"type:varchar(20);not null;index"`
	TotalRows    int           `gorm:"not null;default:0"`
	CreatedRows  int           `gorm:"not null;default:0"`
	UpdatedRows  int           `gorm:"not null;default:0"`
	FailedRows   int           `gorm:"not null;default:0"`
	ErrorDetails []ErrorDetail `gorm:"type:text;serializer:json"`
	UploadedBy   *uuid.UUID    `gorm:"type:uuid"`
	CompletedAt  *time.Time
}

// TableName returns the table name for GORM
func (Upload) TableName() string {
	return "bulk_uploads"
}

// NewUpload starts an upload record
func NewUpload(warehouseID uuid.UUID, locale, source, fileName string, fileSize int64, uploadedBy *uuid.UUID) (*Upload, error) {
	if warehouseID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Warehouse is required")
	}
	if fileName == "" {
		return nil, shared.NewDomainError("INVALID_FILE_NAME", "File name cannot be empty")
	}
	if fileSize < 0 {
		return nil, shared.NewDomainError("INVALID_FILE_SIZE", "File size cannot be negative")
	}
	return &Upload{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		WarehouseID:       warehouseID,
		Locale:            locale,
		Source:            source,
		FileName:          fileName,
		FileSize:          fileSize,
		Status:            UploadStatusProcessing,
		ErrorDetails:      make([]ErrorDetail, 0),
		UploadedBy:        uploadedBy,
	}, nil
}

// Complete stores the counters. An upload where every row failed is marked failed.
func (u *Upload) Complete(total, created, updated, failed int, errors []ErrorDetail) error {
	if u.Status != UploadStatusProcessing {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot complete from state: %s", u.Status))
	}
	status := UploadStatusCompleted
	if failed > 0 && created == 0 && updated == 0 {
		status = UploadStatusFailed
	}
	u.finish(status)
	u.TotalRows = total
	u.CreatedRows = created
	u.UpdatedRows = updated
	u.FailedRows = failed
	if errors == nil {
		errors = make([]ErrorDetail, 0)
	}
	u.ErrorDetails = errors
	return nil
}

// Fail marks an upload that could not be processed at all
func (u *Upload) Fail(code, message string) error {
	if u.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot fail from terminal state: %s", u.Status))
	}
	u.finish(UploadStatusFailed)
	u.ErrorDetails = []ErrorDetail{{Code: code, Message: message}}
	return nil
}

// Cancel marks an upload interrupted before every row was processed
func (u *Upload) Cancel(total, created, updated, failed int) error {
	if u.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel from terminal state: %s", u.Status))
	}
	u.finish(UploadStatusCancelled)
	u.TotalRows = total
	u.CreatedRows = created
	u.UpdatedRows = updated
	u.FailedRows = failed
	return nil
}

func (u *Upload) finish(status UploadStatus) {
	now := time.Now()
	u.Status = status
	u.CompletedAt = &now
	u.IncrementVersion()
}

// Duration returns how long the upload took; zero while still processing
func (u *Upload) Duration() time.Duration {
	if u.CompletedAt == nil {
		return 0
	}
	return u.CompletedAt.Sub(u.CreatedAt)
}
