// Package soap builds the four-section clinical note from diarized utterances
// and an extracted clinical record.
package soap

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

const (
	subjectiveFallback     = "Paciente refere queixa principal conforme transcrição."
	chiefComplaintFallback = "Não identificada"
	historyFallback        = "Detalhes na transcrição completa."
	examFallback           = "Exame físico registrado durante consulta."
	physicalExamFallback   = "A completar."
	differentialFallback   = "A considerar conforme evolução clínica."
	planFallback           = "Conduta a ser definida pelo médico assistente."
	guidanceDefault        = "Retorno conforme agendamento."

	lineJoin = ". "
)

var (
	examLinePattern = regexp.MustCompile(`(?i)exame|ausculta|palpação|inspeção|vital`)
	planLinePattern = regexp.MustCompile(`(?i)prescrevo|solicito|recomendo|indico|oriento|conduta|plano`)
)

type Composer struct{}

func NewComposer() *Composer {
	return &Composer{}
}

// Compose partitions the dialog by speaker and fills each note section. Lines
// tagged indefinido contribute to no section.
func (c *Composer) Compose(dialog []domain.Utterance, record domain.ClinicalRecord) domain.SOAPNote {
	patientLines, doctorLines := partition(dialog)

	return domain.SOAPNote{
		Subjective: subjective(patientLines),
		Objective:  objective(doctorLines, record.Vitals),
		Assessment: assessment(record.Diagnosis),
		Plan:       plan(doctorLines, record.Medications),
	}
}

// Summarize projects the note and record into the flattened summary view.
func (c *Composer) Summarize(note domain.SOAPNote, record domain.ClinicalRecord) domain.SummaryView {
	return domain.SummaryView{
		TechnicalHistory: note.Subjective.History,
		Comorbidities:    record.Comorbidities,
		Allergies:        record.Allergies,
		Medications:      record.Medications,
	}
}

func partition(dialog []domain.Utterance) (patient, doctor []string) {
	patient = make([]string, 0, len(dialog))
	doctor = make([]string, 0, len(dialog))
	for _, u := range dialog {
		switch u.Speaker {
		case domain.SpeakerPatient:
			patient = append(patient, u.Text)
		case domain.SpeakerDoctor:
			doctor = append(doctor, u.Text)
		}
	}
	return patient, doctor
}

func subjective(patientLines []string) domain.SubjectiveSection {
	section := domain.SubjectiveSection{
		Title:          "Subjetivo (S)",
		Icon:           "💬",
		Content:        subjectiveFallback,
		ChiefComplaint: chiefComplaintFallback,
		History:        historyFallback,
	}
	if len(patientLines) > 0 {
		section.Content = strings.Join(patientLines, lineJoin) + "."
		section.ChiefComplaint = patientLines[0]
	}
	if len(patientLines) > 1 {
		section.History = strings.Join(patientLines[1:], lineJoin)
	}
	return section
}

func objective(doctorLines []string, vitals domain.VitalSigns) domain.ObjectiveSection {
	examLines := filterLines(doctorLines, examLinePattern)

	var content strings.Builder
	if parts := FormatVitals(vitals); len(parts) > 0 {
		content.WriteString("Sinais vitais: ")
		content.WriteString(strings.Join(parts, ", "))
		content.WriteString(". ")
	}

	physicalExam := physicalExamFallback
	if len(examLines) > 0 {
		physicalExam = strings.Join(examLines, lineJoin)
		content.WriteString(physicalExam)
	} else {
		content.WriteString(examFallback)
	}

	return domain.ObjectiveSection{
		Title:        "Objetivo (O)",
		Icon:         "🔍",
		Content:      content.String(),
		Vitals:       vitals,
		PhysicalExam: physicalExam,
	}
}

func assessment(diagnosis domain.Diagnosis) domain.AssessmentSection {
	return domain.AssessmentSection{
		Title:                 "Avaliação (A)",
		Icon:                  "🧠",
		Content:               fmt.Sprintf("Hipótese diagnóstica: %s (%s)", diagnosis.Desc, diagnosis.Code),
		DiagnosticHypothesis:  diagnosis.Desc,
		ICD10:                 diagnosis.Code,
		DifferentialDiagnoses: differentialFallback,
	}
}

func plan(doctorLines, medications []string) domain.PlanSection {
	content := planFallback
	if planLines := filterLines(doctorLines, planLinePattern); len(planLines) > 0 {
		content = strings.Join(planLines, lineJoin)
	}
	return domain.PlanSection{
		Title:          "Plano (P)",
		Icon:           "📋",
		Content:        content,
		Prescriptions:  medications,
		ExamsRequested: []string{},
		Guidance:       guidanceDefault,
		Referrals:      []string{},
	}
}

// FormatVitals renders the present readings in the fixed order PA, FC, FR,
// SpO2, Temp.
func FormatVitals(v domain.VitalSigns) []string {
	parts := make([]string, 0, 5)
	if v.BloodPressure != nil {
		parts = append(parts, fmt.Sprintf("PA %dx%dmmHg", v.BloodPressure.Systolic, v.BloodPressure.Diastolic))
	}
	if v.HeartRate != nil {
		parts = append(parts, fmt.Sprintf("FC %dbpm", v.HeartRate.Value))
	}
	if v.RespiratoryRate != nil {
		parts = append(parts, fmt.Sprintf("FR %dirpm", v.RespiratoryRate.Value))
	}
	if v.SpO2 != nil {
		parts = append(parts, fmt.Sprintf("SpO2 %d%%", v.SpO2.Value))
	}
	if v.Temperature != nil {
		parts = append(parts, fmt.Sprintf("Temp %s°C", formatDecimal(v.Temperature.Value)))
	}
	return parts
}

// formatDecimal always keeps a fractional digit: 38 renders as "38.0".
func formatDecimal(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func filterLines(lines []string, pattern *regexp.Regexp) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if pattern.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}
