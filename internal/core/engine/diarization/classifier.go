// Package diarization attributes transcript lines to the doctor or the patient
// using keyword scoring.
package diarization

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

const (
	minLineRunes     = 6
	tieBreakLongLine = 60
)

var lineSeparator = regexp.MustCompile(`[.\n]+`)

var doctorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(doutor|dra?\.?|médico)`),
	regexp.MustCompile(`(?i)vamos (examinar|verificar|avaliar|prescrever)`),
	regexp.MustCompile(`(?i)minha (hipótese|avaliação|conduta)`),
	regexp.MustCompile(`(?i)(prescrevo|solicito|recomendo|indico|oriento)`),
	regexp.MustCompile(`(?i)(exame físico|ausculta|palpação|inspeção)`),
	regexp.MustCompile(`(?i)(pa |fc |fr |spo2|sat |temperatura|sinais vitais)`),
	regexp.MustCompile(`(?i)(diagnóstico|prognóstico|conduta|plano)`),
	regexp.MustCompile(`(?i)^(vou |preciso |solicitar|pedir)`),
}

var patientPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(paciente|pac\.?)`),
	regexp.MustCompile(`(?i)(estou sentindo|sinto|tenho sentido|comecei)`),
	regexp.MustCompile(`(?i)(dói|doendo|doer|incômodo)`),
	regexp.MustCompile(`(?i)(faz .+ dias|há .+ dias|desde)`),
	regexp.MustCompile(`(?i)(meu|minha) (dor|febre|tosse|mal[\s-]?estar)`),
	regexp.MustCompile(`(?i)(tomo|uso|tomando|usando) .+(mg|ml|comprimido)`),
	regexp.MustCompile(`(?i)(me sinto|sinto[\s-]?me|estou)`),
	regexp.MustCompile(`(?i)(queixa|queixo|reclamo)`),
}

type Classifier struct{}

func NewClassifier() *Classifier {
	return &Classifier{}
}

// Diarize splits text into lines and tags each one with a speaker. Output order
// follows the transcript.
func (c *Classifier) Diarize(text string) []domain.Utterance {
	lines := SplitLines(text)
	out := make([]domain.Utterance, 0, len(lines))
	for _, line := range lines {
		out = append(out, domain.Utterance{
			Speaker: Classify(line),
			Text:    line,
		})
	}
	return out
}

// SplitLines breaks text on periods and newlines, keeping trimmed candidates of
// at least six characters.
func SplitLines(text string) []string {
	parts := lineSeparator.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		line := strings.TrimSpace(part)
		if utf8.RuneCountInString(line) < minLineRunes {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Classify scores a single line. Ties go to the patient for lines longer than
// sixty characters and to the doctor otherwise.
func Classify(line string) domain.Speaker {
	docScore := score(doctorPatterns, line)
	patScore := score(patientPatterns, line)

	switch {
	case docScore > patScore:
		return domain.SpeakerDoctor
	case patScore > docScore:
		return domain.SpeakerPatient
	case utf8.RuneCountInString(line) > tieBreakLongLine:
		return domain.SpeakerPatient
	default:
		return domain.SpeakerDoctor
	}
}

func score(patterns []*regexp.Regexp, line string) int {
	n := 0
	for _, p := range patterns {
		if p.MatchString(line) {
			n++
		}
	}
	return n
}
