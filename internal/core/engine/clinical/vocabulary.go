package clinical

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// NoKnownAllergies is the single allergy entry reported when none is detected.
const NoKnownAllergies = "NADA (NEGA ALERGIAS CONHECIDAS - NKDA)"

var medicationVocabulary = []string{
	"dipirona", "paracetamol", "ibuprofeno", "amoxicilina", "azitromicina",
	"losartana", "metformina", "omeprazol", "enalapril", "atenolol",
	"hidroclorotiazida", "sinvastatina", "captopril", "anlodipino",
	"fluoxetina", "sertralina", "clonazepam", "diazepam", "prednisona",
	"dexametasona", "cetoprofeno", "nimesulida", "ciprofloxacino",
	"cefalexina", "metronidazol", "ranitidina", "insulina", "aspirina",
	"clopidogrel", "enoxaparina", "furosemida", "espironolactona",
	"salbutamol", "budesonida", "loratadina", "prometazina",
}

var comorbidityVocabulary = []string{
	"hipertensão", "diabetes", "asma", "dpoc", "icc", "insuficiência renal",
	"insuficiência cardíaca", "hiv", "hepatite", "obesidade", "dislipidemia",
	"hipotireoidismo", "hipertireoidismo", "epilepsia", "arritmia",
}

var allergyKeywords = []string{"alergia", "alérgico", "alérgica", "alergias", "intolerância"}

var allergenPattern = regexp.MustCompile(`(?i)(?:alergia|alérgic[oa]|alergias|intolerância)\s+(?:a\s+|ao?\s+)?([^,.\n]+)`)

const (
	allergyWindowBefore = 5
	allergyWindowAfter  = 60
)

// ExtractMedications reports every vocabulary drug named in text, in vocabulary
// order rather than order of mention.
func ExtractMedications(text string) []string {
	return matchVocabulary(medicationVocabulary, strings.ToLower(text))
}

// ExtractComorbidities reports every known condition named in text, in
// vocabulary order.
func ExtractComorbidities(text string) []string {
	return matchVocabulary(comorbidityVocabulary, strings.ToLower(text))
}

// ExtractAllergies scans only the first occurrence of each allergy keyword and
// captures one allergen phrase from a short window around it. Invalid UTF-8
// bytes are dropped rather than reported as U+FFFD.
func ExtractAllergies(text string) []string {
	original := []rune(strings.ToValidUTF8(text, ""))
	lowered := make([]rune, len(original))
	for i, r := range original {
		lowered[i] = unicode.ToLower(r)
	}

	out := make([]string, 0)
	for _, keyword := range allergyKeywords {
		idx := runeIndex(lowered, []rune(keyword))
		if idx < 0 {
			continue
		}
		start := max(0, idx-allergyWindowBefore)
		end := min(len(original), idx+allergyWindowAfter)
		m := allergenPattern.FindStringSubmatch(string(original[start:end]))
		if m == nil {
			continue
		}
		out = append(out, strings.ToUpper(strings.TrimSpace(m[1])))
	}

	if len(out) == 0 {
		return []string{NoKnownAllergies}
	}
	return out
}

func matchVocabulary(vocabulary []string, lower string) []string {
	out := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(lower, term) {
			out = append(out, capitalize(term))
		}
	}
	return out
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func runeIndex(haystack, needle []rune) int {
	if len(needle) == 0 {
		return 0
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		match := true
		for j, r := range needle {
			if haystack[i+j] != r {
				match = false
				break
			}
		}
		if match {
			return i
		}
	}
	return -1
}
