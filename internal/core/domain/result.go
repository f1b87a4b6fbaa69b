package domain

import "encoding/json"

// FailureInsufficientInput is the only failure kind the engine reports.
const FailureInsufficientInput = "InsufficientInput"

type ProcessingMetadata struct {
	UtteranceCount int    `json:"utterance_count"`
	DoctorCount    int    `json:"doctor_count"`
	PatientCount   int    `json:"patient_count"`
	ProcessedAt    string `json:"processed_at"`
}

// ProcessingResult is the aggregate returned for a single transcript. Callers must
// check Success before reading any other field: on failure only Error and Message
// are set.
type ProcessingResult struct {
	Success     bool                `json:"success"`
	Error       string              `json:"error,omitempty"`
	Message     string              `json:"message,omitempty"`
	Dialog      []Utterance         `json:"dialog"`
	Record      *ClinicalRecord     `json:"record,omitempty"`
	Note        *SOAPNote           `json:"note,omitempty"`
	SummaryView *SummaryView        `json:"summary_view,omitempty"`
	Metadata    *ProcessingMetadata `json:"metadata,omitempty"`
}

type failureView struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// MarshalJSON emits only the discriminator and error fields for failures, and
// the full aggregate otherwise. An empty dialog on success is kept as [].
func (r ProcessingResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(failureView{Success: false, Error: r.Error, Message: r.Message})
	}
	type plain ProcessingResult
	if r.Dialog == nil {
		r.Dialog = []Utterance{}
	}
	return json.Marshal(plain(r))
}

func NewFailure(kind, message string) ProcessingResult {
	return ProcessingResult{
		Success: false,
		Error:   kind,
		Message: message,
	}
}
