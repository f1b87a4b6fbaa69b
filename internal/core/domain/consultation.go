package domain

import "time"

type ConsultationStatus string

const (
	StatusUploaded   ConsultationStatus = "uploaded"
	StatusProcessing ConsultationStatus = "processing"
	StatusReady      ConsultationStatus = "ready"
	StatusFailed     ConsultationStatus = "failed"
)

// Consultation tracks one uploaded transcript through asynchronous analysis. It
// holds no patient identity: anonymization happens before upload.
type Consultation struct {
	ID          string             `json:"id"`
	Filename    string             `json:"filename"`
	MimeType    string             `json:"mime_type"`
	StoragePath string             `json:"storage_path"`
	Status      ConsultationStatus `json:"status"`
	Error       string             `json:"error,omitempty"`
	Result      *ProcessingResult  `json:"result,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}
