// Package clinical extracts structured clinical data from a raw consultation
// transcript with fixed vocabularies and regular expressions.
//
// Every lookup table in this package is built at init and never written again,
// so an Extractor can be shared by any number of goroutines.
package clinical

import "github.com/eixo/medical-scribe/internal/core/domain"

type Extractor struct{}

func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract runs every sub-extraction over the full text. None of them depend on
// speaker attribution.
func (e *Extractor) Extract(text string) domain.ClinicalRecord {
	return domain.ClinicalRecord{
		Diagnosis:     LookupDiagnosis(text),
		Vitals:        ExtractVitals(text),
		Medications:   ExtractMedications(text),
		Allergies:     ExtractAllergies(text),
		Comorbidities: ExtractComorbidities(text),
		Severity:      ClassifySeverity(text),
	}
}
