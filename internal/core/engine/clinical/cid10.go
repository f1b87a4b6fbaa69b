package clinical

import (
	"strings"

	"github.com/eixo/medical-scribe/internal/core/domain"
)

// CIDEntry maps a lowercase keyword to a CID-10 diagnosis.
type CIDEntry struct {
	Keyword   string           `json:"keyword"`
	Diagnosis domain.Diagnosis `json:"diagnosis"`
}

// FallbackDiagnosis is reported when no keyword in the table matches.
var FallbackDiagnosis = domain.Diagnosis{Code: "R69", Desc: "Causa de morbidade desconhecida"}

// cidTable is scanned front to back and the first match wins, so specific and
// critical conditions must be declared before the generic keywords they overlap.
var cidTable = []CIDEntry{
	// Sepsis
	{Keyword: "sepse grave", Diagnosis: domain.Diagnosis{Code: "A41.9", Desc: "Sepse grave"}},
	{Keyword: "choque séptico", Diagnosis: domain.Diagnosis{Code: "R65.1", Desc: "Choque séptico"}},
	{Keyword: "sirs", Diagnosis: domain.Diagnosis{Code: "R65.1", Desc: "Síndrome da resposta inflamatória sistêmica"}},
	{Keyword: "bacteremia", Diagnosis: domain.Diagnosis{Code: "A49.9", Desc: "Bacteremia"}},
	{Keyword: "sepse", Diagnosis: domain.Diagnosis{Code: "A41", Desc: "Septicemia"}},

	// Acute coronary syndromes
	{Keyword: "iamcsst", Diagnosis: domain.Diagnosis{Code: "I21.0", Desc: "IAM com supra de ST (IAMCSST)"}},
	{Keyword: "iamssst", Diagnosis: domain.Diagnosis{Code: "I21.4", Desc: "IAM sem supra de ST (IAMSSST)"}},
	{Keyword: "síndrome coronariana aguda", Diagnosis: domain.Diagnosis{Code: "I24.9", Desc: "Síndrome coronariana aguda"}},
	{Keyword: "síndrome coronariana", Diagnosis: domain.Diagnosis{Code: "I24.9", Desc: "Síndrome coronariana aguda"}},
	{Keyword: "angina instável", Diagnosis: domain.Diagnosis{Code: "I20.0", Desc: "Angina instável"}},
	{Keyword: "iam", Diagnosis: domain.Diagnosis{Code: "I21", Desc: "Infarto agudo do miocárdio"}},
	{Keyword: "infarto", Diagnosis: domain.Diagnosis{Code: "I21", Desc: "Infarto agudo do miocárdio"}},

	// Stroke
	{Keyword: "avc isquêmico", Diagnosis: domain.Diagnosis{Code: "I63", Desc: "AVC isquêmico"}},
	{Keyword: "avc hemorrágico", Diagnosis: domain.Diagnosis{Code: "I61", Desc: "AVC hemorrágico"}},
	{Keyword: "ataque isquêmico transitório", Diagnosis: domain.Diagnosis{Code: "G45", Desc: "Ataque isquêmico transitório (AIT)"}},
	{Keyword: "ait", Diagnosis: domain.Diagnosis{Code: "G45", Desc: "Ataque isquêmico transitório (AIT)"}},
	{Keyword: "avc", Diagnosis: domain.Diagnosis{Code: "I64", Desc: "Acidente vascular cerebral"}},
	{Keyword: "derrame", Diagnosis: domain.Diagnosis{Code: "I64", Desc: "Acidente vascular cerebral"}},

	// Shock
	{Keyword: "choque hipovolêmico", Diagnosis: domain.Diagnosis{Code: "R57.1", Desc: "Choque hipovolêmico"}},
	{Keyword: "choque cardiogênico", Diagnosis: domain.Diagnosis{Code: "R57.0", Desc: "Choque cardiogênico"}},
	{Keyword: "choque anafilático", Diagnosis: domain.Diagnosis{Code: "T78.2", Desc: "Choque anafilático"}},
	{Keyword: "choque distributivo", Diagnosis: domain.Diagnosis{Code: "R57.8", Desc: "Choque distributivo"}},

	// Intensive care
	{Keyword: "sdra", Diagnosis: domain.Diagnosis{Code: "J80", Desc: "Síndrome do desconforto respiratório agudo"}},
	{Keyword: "insuficiência respiratória aguda", Diagnosis: domain.Diagnosis{Code: "J96.0", Desc: "Insuficiência respiratória aguda"}},
	{Keyword: "insuficiência respiratória", Diagnosis: domain.Diagnosis{Code: "J96", Desc: "Insuficiência respiratória"}},
	{Keyword: "parada cardiorrespiratória", Diagnosis: domain.Diagnosis{Code: "I46", Desc: "Parada cardiorrespiratória"}},
	{Keyword: "pcr", Diagnosis: domain.Diagnosis{Code: "I46", Desc: "Parada cardiorrespiratória"}},
	{Keyword: "ventilação mecânica", Diagnosis: domain.Diagnosis{Code: "Z99.1", Desc: "Dependência de ventilação mecânica"}},
	{Keyword: "rabdomiólise", Diagnosis: domain.Diagnosis{Code: "M62.8", Desc: "Rabdomiólise"}},
	{Keyword: "civd", Diagnosis: domain.Diagnosis{Code: "D65", Desc: "Coagulação intravascular disseminada"}},
	{Keyword: "politrauma", Diagnosis: domain.Diagnosis{Code: "T07", Desc: "Politraumatismo"}},
	{Keyword: "edema cerebral", Diagnosis: domain.Diagnosis{Code: "G93.6", Desc: "Edema cerebral"}},
	{Keyword: "status epilepticus", Diagnosis: domain.Diagnosis{Code: "G41", Desc: "Estado de mal epiléptico"}},
	{Keyword: "cetoacidose diabética", Diagnosis: domain.Diagnosis{Code: "E10.1", Desc: "Cetoacidose diabética"}},
	{Keyword: "crise hipertensiva", Diagnosis: domain.Diagnosis{Code: "I16", Desc: "Crise hipertensiva"}},
	{Keyword: "tamponamento cardíaco", Diagnosis: domain.Diagnosis{Code: "I31.4", Desc: "Tamponamento cardíaco"}},
	{Keyword: "tromboembolismo pulmonar", Diagnosis: domain.Diagnosis{Code: "I26", Desc: "Tromboembolismo pulmonar"}},
	{Keyword: "tep", Diagnosis: domain.Diagnosis{Code: "I26", Desc: "Tromboembolismo pulmonar"}},

	// Ambulatory conditions
	{Keyword: "hipertensão", Diagnosis: domain.Diagnosis{Code: "I10", Desc: "Hipertensão essencial (primária)"}},
	{Keyword: "pressão alta", Diagnosis: domain.Diagnosis{Code: "I10", Desc: "Hipertensão essencial (primária)"}},
	{Keyword: "diabetes tipo 2", Diagnosis: domain.Diagnosis{Code: "E11", Desc: "Diabetes mellitus tipo 2"}},
	{Keyword: "diabetes tipo 1", Diagnosis: domain.Diagnosis{Code: "E10", Desc: "Diabetes mellitus tipo 1"}},
	{Keyword: "diabetes", Diagnosis: domain.Diagnosis{Code: "E11", Desc: "Diabetes mellitus tipo 2"}},
	{Keyword: "asma", Diagnosis: domain.Diagnosis{Code: "J45", Desc: "Asma"}},
	{Keyword: "pneumonia", Diagnosis: domain.Diagnosis{Code: "J18", Desc: "Pneumonia"}},
	{Keyword: "covid", Diagnosis: domain.Diagnosis{Code: "U07.1", Desc: "COVID-19"}},
	{Keyword: "gripe", Diagnosis: domain.Diagnosis{Code: "J11", Desc: "Influenza"}},
	{Keyword: "infecção urinária", Diagnosis: domain.Diagnosis{Code: "N39.0", Desc: "Infecção do trato urinário"}},
	{Keyword: "itu", Diagnosis: domain.Diagnosis{Code: "N39.0", Desc: "Infecção do trato urinário"}},
	{Keyword: "cefaleia", Diagnosis: domain.Diagnosis{Code: "R51", Desc: "Cefaleia"}},
	{Keyword: "dor de cabeça", Diagnosis: domain.Diagnosis{Code: "R51", Desc: "Cefaleia"}},
	{Keyword: "enxaqueca", Diagnosis: domain.Diagnosis{Code: "G43", Desc: "Enxaqueca"}},
	{Keyword: "lombalgia", Diagnosis: domain.Diagnosis{Code: "M54.5", Desc: "Lombalgia"}},
	{Keyword: "dor lombar", Diagnosis: domain.Diagnosis{Code: "M54.5", Desc: "Lombalgia"}},
	{Keyword: "dor nas costas", Diagnosis: domain.Diagnosis{Code: "M54.5", Desc: "Lombalgia"}},
	{Keyword: "gastrite", Diagnosis: domain.Diagnosis{Code: "K29", Desc: "Gastrite"}},
	{Keyword: "dor abdominal", Diagnosis: domain.Diagnosis{Code: "R10", Desc: "Dor abdominal"}},
	{Keyword: "dor no peito", Diagnosis: domain.Diagnosis{Code: "R07", Desc: "Dor torácica"}},
	{Keyword: "dor torácica", Diagnosis: domain.Diagnosis{Code: "R07", Desc: "Dor torácica"}},
	{Keyword: "febre", Diagnosis: domain.Diagnosis{Code: "R50", Desc: "Febre de origem desconhecida"}},
	{Keyword: "tosse", Diagnosis: domain.Diagnosis{Code: "R05", Desc: "Tosse"}},
	{Keyword: "dispneia", Diagnosis: domain.Diagnosis{Code: "R06.0", Desc: "Dispneia"}},
	{Keyword: "falta de ar", Diagnosis: domain.Diagnosis{Code: "R06.0", Desc: "Dispneia"}},
	{Keyword: "ansiedade", Diagnosis: domain.Diagnosis{Code: "F41", Desc: "Transtornos ansiosos"}},
	{Keyword: "depressão", Diagnosis: domain.Diagnosis{Code: "F32", Desc: "Episódio depressivo"}},
	{Keyword: "insônia", Diagnosis: domain.Diagnosis{Code: "G47.0", Desc: "Insônia"}},
	{Keyword: "alergia", Diagnosis: domain.Diagnosis{Code: "T78.4", Desc: "Alergia não especificada"}},
	{Keyword: "rinite", Diagnosis: domain.Diagnosis{Code: "J30", Desc: "Rinite alérgica"}},
	{Keyword: "sinusite", Diagnosis: domain.Diagnosis{Code: "J32", Desc: "Sinusite crônica"}},
	{Keyword: "otite", Diagnosis: domain.Diagnosis{Code: "H66", Desc: "Otite média"}},
	{Keyword: "dor de ouvido", Diagnosis: domain.Diagnosis{Code: "H66", Desc: "Otite média"}},
	{Keyword: "faringite", Diagnosis: domain.Diagnosis{Code: "J02", Desc: "Faringite aguda"}},
	{Keyword: "dor de garganta", Diagnosis: domain.Diagnosis{Code: "J02", Desc: "Faringite aguda"}},
	{Keyword: "dengue", Diagnosis: domain.Diagnosis{Code: "A90", Desc: "Dengue"}},
	{Keyword: "diarreia", Diagnosis: domain.Diagnosis{Code: "A09", Desc: "Diarreia e gastroenterite"}},
	{Keyword: "vômito", Diagnosis: domain.Diagnosis{Code: "R11", Desc: "Náusea e vômitos"}},
	{Keyword: "fratura", Diagnosis: domain.Diagnosis{Code: "T14.2", Desc: "Fratura de região do corpo não especificada"}},
	{Keyword: "entorse", Diagnosis: domain.Diagnosis{Code: "T14.3", Desc: "Luxação, entorse de região não especificada"}},
	{Keyword: "icc", Diagnosis: domain.Diagnosis{Code: "I50", Desc: "Insuficiência cardíaca"}},
	{Keyword: "insuficiência cardíaca", Diagnosis: domain.Diagnosis{Code: "I50", Desc: "Insuficiência cardíaca"}},
	{Keyword: "dpoc", Diagnosis: domain.Diagnosis{Code: "J44", Desc: "Doença pulmonar obstrutiva crônica"}},
	{Keyword: "insuficiência renal", Diagnosis: domain.Diagnosis{Code: "N18", Desc: "Doença renal crônica"}},
	{Keyword: "irc", Diagnosis: domain.Diagnosis{Code: "N18", Desc: "Doença renal crônica"}},
}

// LookupDiagnosis returns the first table entry whose keyword occurs in text.
func LookupDiagnosis(text string) domain.Diagnosis {
	lower := strings.ToLower(text)
	for _, entry := range cidTable {
		if strings.Contains(lower, entry.Keyword) {
			return entry.Diagnosis
		}
	}
	return FallbackDiagnosis
}

// CIDTable returns a copy of the lookup table in priority order.
func CIDTable() []CIDEntry {
	out := make([]CIDEntry, len(cidTable))
	copy(out, cidTable)
	return out
}
