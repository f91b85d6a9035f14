// File path: internal/cases/record.go
package cases

// PatientProfile describes the simulated patient behind a training case. Age
// is a pointer so that authored files missing the field are distinguishable
// from age zero when the training corpus is filtered.
type PatientProfile struct {
	Name           string `json:"name"`
	Age            *int   `json:"age"`
	Gender         string `json:"gender"`
	ChiefComplaint string `json:"chief_complaint"`
}

// AdditionalInfo carries the free-text history sections of a case.
type AdditionalInfo struct {
	MedicalHistory []string `json:"medical_history"`
	FamilyHistory  []string `json:"family_history"`
}

// Record is one authored training case. Records are created offline, loaded
// read-only at runtime and never mutated by the system.
type Record struct {
	ID                   string         `json:"-"`
	Title                string         `json:"title,omitempty"`
	Profile              PatientProfile `json:"patient_profile"`
	Symptoms             []string       `json:"symptoms"`
	AdditionalInfo       AdditionalInfo `json:"additional_info"`
	CorrectDiagnosis     string         `json:"correct_diagnosis"`
	RecommendedTreatment string         `json:"recommended_treatment"`
	IntroMessage         string         `json:"intro_message,omitempty"`
}

// Summary is the case-picker view of a record.
type Summary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// Trainable reports whether the record carries the fields the diagnosis
// classifier needs. Untrainable records stay available for chat use.
func (r Record) Trainable() bool {
	return r.Profile.Age != nil && r.Profile.Gender != "" && r.CorrectDiagnosis != ""
}
