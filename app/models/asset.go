package models

// UploadedAsset is the result of a successful image upload.
type UploadedAsset struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}
