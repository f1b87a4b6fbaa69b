package clinical

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

var (
	bloodPressureLabeled = regexp.MustCompile(`(?i)(?:pa|pressão\s*arterial)[:\s]+?(\d{2,3})\s*[x/]\s*(\d{2,3})`)
	bloodPressureSpoken  = regexp.MustCompile(`(?i)pressão\s+(\d{2,3})\s*(?:por|x|/)\s*(\d{2,3})`)
	heartRatePattern     = regexp.MustCompile(`(?i)(?:fc|frequência\s*cardíaca|pulso)[:\s]+?(\d{2,3})\s*(?:bpm)?`)
	temperaturePattern   = regexp.MustCompile(`(?i)(?:temperatura|temp|tax)[:\s]+?(\d{2}[.,]?\d?)\s*°?\s*c?`)
	saturationPattern    = regexp.MustCompile(`(?i)(?:sat(?:ura[çc][aã]o)?|spo2|sato2)[:\s]+?(\d{2,3})\s*%?`)
	respiratoryPattern   = regexp.MustCompile(`(?i)(?:fr|frequência\s*respiratória)[:\s]+?(\d{1,2})\s*(?:irpm|rpm)?`)
)

// ExtractVitals runs each vital-sign pattern once over the whole text and keeps
// the first match. Vitals without a label in the text stay nil.
func ExtractVitals(text string) domain.VitalSigns {
	return domain.VitalSigns{
		BloodPressure:   extractBloodPressure(text),
		HeartRate:       extractInt(heartRatePattern, text),
		Temperature:     extractTemperature(text),
		SpO2:            extractInt(saturationPattern, text),
		RespiratoryRate: extractInt(respiratoryPattern, text),
	}
}

func extractBloodPressure(text string) *domain.BloodPressure {
	m := bloodPressureLabeled.FindStringSubmatch(text)
	if m == nil {
		m = bloodPressureSpoken.FindStringSubmatch(text)
	}
	if m == nil {
		return nil
	}
	systolic, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	diastolic, err := strconv.Atoi(m[2])
	if err != nil {
		return nil
	}
	return &domain.BloodPressure{
		Systolic:  systolic,
		Diastolic: diastolic,
		Raw:       strings.TrimSpace(m[0]),
	}
}

func extractInt(pattern *regexp.Regexp, text string) *domain.IntReading {
	m := pattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &domain.IntReading{Value: value, Raw: strings.TrimSpace(m[0])}
}

func extractTemperature(text string) *domain.FloatReading {
	m := temperaturePattern.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	value, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return &domain.FloatReading{Value: value, Raw: strings.TrimSpace(m[0])}
}
