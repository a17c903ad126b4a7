package dto

// BulkUploadForm is the multipart form of a price list upload.
// The file itself travels in the "file" part.
type BulkUploadForm struct {
	WarehouseID string `form:"warehouse_id" binding:"required,uuid"`
	Locale      string `form:"locale" binding:"omitempty,min=2,max=16"`
}
