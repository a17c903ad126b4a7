package media

import "time"

// UploadURLRequest asks for a presigned upload of one image
type UploadURLRequest struct {
	Filename    string `json:"filename" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required"`
}

// UploadURLResponse tells the client where to PUT the file and where it will be served from
type UploadURLResponse struct {
	Key       string            `json:"key"`
	UploadURL string            `json:"upload_url"`
	Method    string            `json:"method"`
	Headers   map[string]string `json:"headers"`
	PublicURL string            `json:"public_url"`
	ExpiresAt time.Time         `json:"expires_at"`
}

// ListQuery filters the image library
type ListQuery struct {
	Prefix string `form:"prefix"`
	Limit  int    `form:"limit" binding:"omitempty,min=1,max=1000"`
}

// ImageResponse is an object in the image library
type ImageResponse struct {
	Key          string    `json:"key"`
	URL          string    `json:"url"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"last_modified"`
}
