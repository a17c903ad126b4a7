package bulkupload

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/storefront/backend/internal/domain/bulk"
	fileimport "github.com/storefront/backend/internal/infrastructure/import"
)

// Row is one validated line of a price list
type Row struct {
	Line        int
	Article     string
	Price       decimal.Decimal
	Quantity    int
	Currency    string
	Badge       string
	Brand       string
	Category    string
	Subcategory string
	Name        string
	Description string
	PromoPrice  *decimal.Decimal
	PromoEndsAt *time.Time
}

// RowError describes why a line was not applied
type RowError = fileimport.RowError

// Result summarizes a reconciliation
type Result struct {
	TotalRows   int        `json:"total_rows"`
	CreatedRows int        `json:"created_rows"`
	UpdatedRows int        `json:"updated_rows"`
	FailedRows  int        `json:"failed_rows"`
	// SkippedRows were never reached because the run was cancelled
	SkippedRows int        `json:"skipped_rows,omitempty"`
	Errors      []RowError `json:"errors"`
	IsTruncated bool       `json:"is_truncated,omitempty"`
	TotalErrors int        `json:"total_errors,omitempty"`
	Cancelled   bool       `json:"cancelled,omitempty"`
}

// UploadRequest is a price list file to apply to one warehouse
type UploadRequest struct {
	WarehouseID uuid.UUID
	Locale      string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
	UploadedBy  *uuid.UUID
}

// UploadResponse is the outcome of an upload together with its log id
type UploadResponse struct {
	UploadID uuid.UUID `json:"upload_id"`
	Result
}

// UploadListFilter represents upload log filters
type UploadListFilter struct {
	WarehouseID *uuid.UUID `form:"-"`
	Status      string     `form:"status" binding:"omitempty,oneof=processing completed failed cancelled"`
	Page        int        `form:"page" binding:"omitempty,min=1"`
	PageSize    int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UploadLogResponse is an entry of the upload log
type UploadLogResponse struct {
	ID          uuid.UUID          `json:"id"`
	WarehouseID uuid.UUID          `json:"warehouse_id"`
	Locale      string             `json:"locale"`
	Source      string             `json:"source"`
	FileName    string             `json:"file_name"`
	FileSize    int64              `json:"file_size"`
	Status      string             `json:"status"`
	TotalRows   int                `json:"total_rows"`
	CreatedRows int                `json:"created_rows"`
	UpdatedRows int                `json:"updated_rows"`
	FailedRows  int                `json:"failed_rows"`
	Errors      []bulk.ErrorDetail `json:"errors"`
	UploadedBy  *uuid.UUID         `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	CompletedAt *time.Time         `json:"completed_at,omitempty"`
}

// ToUploadLogResponse converts an upload record to a response
func ToUploadLogResponse(u *bulk.Upload) UploadLogResponse {
	return UploadLogResponse{
		ID:          u.ID,
		WarehouseID: u.WarehouseID,
		Locale:      u.Locale,
		Source:      u.Source,
		FileName:    u.FileName,
		FileSize:    u.FileSize,
		Status:      string(u.Status),
		TotalRows:   u.TotalRows,
		CreatedRows: u.CreatedRows,
		UpdatedRows: u.UpdatedRows,
		FailedRows:  u.FailedRows,
		Errors:      u.ErrorDetails,
		UploadedBy:  u.UploadedBy,
		CreatedAt:   u.CreatedAt,
		CompletedAt: u.CompletedAt,
	}
}

func toErrorDetails(errs []RowError) []bulk.ErrorDetail {
	out := make([]bulk.ErrorDetail, len(errs))
	for i, e := range errs {
		out[i] = bulk.ErrorDetail{Line: e.Line, Article: e.Article, Column: e.Column, Code: e.Code, Message: e.Message}
	}
	return out
}
