package clinical

import (
	"strings"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

var severeKeywords = []string{
	"iam", "infarto", "avc", "derrame", "sepse", "pcr", "choque",
	"rebaixamento", "coma", "hemorragia", "politrauma", "sdra", "civd",
	"choque séptico", "choque cardiogênico", "tamponamento", "tep",
	"parada cardiorrespiratória", "status epilepticus", "cetoacidose",
}

var moderateKeywords = []string{
	"febre alta", "dispneia", "falta de ar", "taquicardia",
	"hipotensão", "desidratação", "pneumonia", "fratura",
	"crise hipertensiva", "angina instável", "insuficiência respiratória",
	"rabdomiólise", "edema cerebral",
}

// ClassifySeverity checks the severe tier before the moderate tier. A single
// severe keyword is enough for Grave whatever else the text mentions.
func ClassifySeverity(text string) domain.Severity {
	lower := strings.ToLower(text)
	switch {
	case containsAny(lower, severeKeywords):
		return domain.SeveritySevere
	case containsAny(lower, moderateKeywords):
		return domain.SeverityModerate
	default:
		return domain.SeverityMild
	}
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
