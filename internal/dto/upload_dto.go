package dto

// UploadSignatureRequest asks for time-limited upload credentials. The file
// itself goes directly from the client to object storage.
type UploadSignatureRequest struct {
	PublicID string `json:"public_id" validate:"omitempty,max=255"`
}

// UploadSignatureResponse carries the signed parameters a client needs to
// perform a direct upload.
type UploadSignatureResponse struct {
	Signature string `json:"signature"`
	Timestamp int64  `json:"timestamp"`
	APIKey    string `json:"api_key"`
	CloudName string `json:"cloud_name"`
	Folder    string `json:"folder"`
	PublicID  string `json:"public_id,omitempty"`
}
