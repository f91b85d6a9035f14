// File path: internal/patient/prompt.go
package patient

import (
	"fmt"
	"strings"

	"github.com/meditrainhq/meditrain/internal/cases"
)

// BuildPrompt assembles the virtual-patient prompt for one doctor message.
// The template keeps the patient in character and restricts it to the case's
// clinical facts.
func BuildPrompt(rec *cases.Record, userInput string) string {
	age := "unknown"
	if rec.Profile.Age != nil {
		age = fmt.Sprintf("%d", *rec.Profile.Age)
	}
	symptoms := strings.Join(rec.Symptoms, ", ")
	medHistory := strings.Join(rec.AdditionalInfo.MedicalHistory, ", ")
	famHistory := strings.Join(rec.AdditionalInfo.FamilyHistory, ", ")

	return strings.TrimSpace(fmt.Sprintf(`
You are a virtual patient named %s, age %s, gender %s.
You are speaking to a doctor during a consultation. Your main complaint is: %s.
Your symptoms include: %s.
Medical History: %s
Family History: %s

INSTRUCTIONS:
- Always respond **as the patient**, not as an AI or assistant.
- Only answer **medical or personal health-related** questions, including:
  - Your pain, symptoms, medical/family history, or recent changes.
  - Basic identity and emotional state (name, tell me, how you're feeling, etc.).
- **Do NOT** answer questions about science, math, geography, or anything unrelated to your condition.
  - For those, politely deflect and redirect the conversation to your health.
- Doctor may use multiple languages for input. You must understand and respond accordingly as a **virtual patient**.
- Maintain a natural, emotional, and human tone.

Doctor: %s`,
		rec.Profile.Name, age, rec.Profile.Gender, rec.Profile.ChiefComplaint,
		symptoms, medHistory, famHistory, userInput))
}
