// File path: internal/symptom/vocabulary.go
package symptom

// Vocabulary holds the canonical symptom keywords used as classifier features
// plus the synonym phrases that map onto them. A synonym whose target is not a
// canonical keyword is never emitted.
type Vocabulary struct {
	Keywords []string
	Synonyms map[string]string
}

// DefaultVocabulary returns the clinical symptom vocabulary.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{Keywords: symptomKeywords, Synonyms: symptomSynonyms}
}

var symptomKeywords = []string{
	"fever", "cough", "headache", "fatigue", "nausea",
	"vomiting", "diarrhea", "pain", "sore throat",
	"chills", "shortness of breath", "dizziness",
	"rash", "itching", "abdominal pain", "blurred vision",
}

var symptomSynonyms = map[string]string{
	"tired":         "fatigue",
	"exhausted":     "fatigue",
	"sick":          "nausea",
	"queasy":        "nausea",
	"throwing up":   "vomiting",
	"upset stomach": "abdominal pain",
	"belly pain":    "abdominal pain",
	"breathless":    "shortness of breath",
	"dizzy":         "dizziness",
	"lightheaded":   "dizziness",
	"blurred sight": "blurred vision",
	"itchy":         "itching",
	"sore throat":   "sore throat",
}
