package domain

type Speaker string

const (
	SpeakerDoctor  Speaker = "medico"
	SpeakerPatient Speaker = "paciente"
	SpeakerUnknown Speaker = "indefinido"
)

type Utterance struct {
	Speaker Speaker `json:"speaker"`
	Text    string  `json:"text"`
}

type Severity string

const (
	SeverityMild     Severity = "Leve"
	SeverityModerate Severity = "Moderada"
	SeveritySevere   Severity = "Grave"
)

// Diagnosis is a CID-10 code with its Portuguese description.
type Diagnosis struct {
	Code string `json:"code"`
	Desc string `json:"desc"`
}

type BloodPressure struct {
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
	Raw       string `json:"raw"`
}

type IntReading struct {
	Value int    `json:"value"`
	Raw   string `json:"raw"`
}

type FloatReading struct {
	Value float64 `json:"value"`
	Raw   string  `json:"raw"`
}

// VitalSigns holds the readings mentioned in a transcript. A nil field means the
// vital was not mentioned; it is never reported as zero.
type VitalSigns struct {
	BloodPressure   *BloodPressure `json:"pa"`
	HeartRate       *IntReading    `json:"hr"`
	Temperature     *FloatReading  `json:"temp"`
	SpO2            *IntReading    `json:"spo2"`
	RespiratoryRate *IntReading    `json:"rr"`
}

type ClinicalRecord struct {
	Diagnosis     Diagnosis  `json:"diagnosis"`
	Vitals        VitalSigns `json:"vitals"`
	Medications   []string   `json:"medications"`
	Allergies     []string   `json:"allergies"`
	Comorbidities []string   `json:"comorbidities"`
	Severity      Severity   `json:"severity"`
}
