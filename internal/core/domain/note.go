package domain

type SubjectiveSection struct {
	Title          string `json:"title"`
	Icon           string `json:"icon"`
	Content        string `json:"content"`
	ChiefComplaint string `json:"chief_complaint"`
	History        string `json:"history"`
}

type ObjectiveSection struct {
	Title        string     `json:"title"`
	Icon         string     `json:"icon"`
	Content      string     `json:"content"`
	Vitals       VitalSigns `json:"vitals"`
	PhysicalExam string     `json:"physical_exam"`
}

type AssessmentSection struct {
	Title                 string `json:"title"`
	Icon                  string `json:"icon"`
	Content               string `json:"content"`
	DiagnosticHypothesis  string `json:"diagnostic_hypothesis"`
	ICD10                 string `json:"icd10"`
	DifferentialDiagnoses string `json:"differential_diagnoses"`
}

type PlanSection struct {
	Title          string   `json:"title"`
	Icon           string   `json:"icon"`
	Content        string   `json:"content"`
	Prescriptions  []string `json:"prescriptions"`
	ExamsRequested []string `json:"exams_requested"`
	Guidance       string   `json:"guidance"`
	Referrals      []string `json:"referrals"`
}

type SOAPNote struct {
	Subjective SubjectiveSection `json:"subjective"`
	Objective  ObjectiveSection  `json:"objective"`
	Assessment AssessmentSection `json:"assessment"`
	Plan       PlanSection       `json:"plan"`
}

// SummaryView is a flattened projection of the note and record for downstream
// consumers. It carries no data that is not already in the note or record.
type SummaryView struct {
	TechnicalHistory string   `json:"technical_history"`
	Comorbidities    []string `json:"comorbidities"`
	Allergies        []string `json:"allergies"`
	Medications      []string `json:"medications"`
}
