package prescription

import (
	"fmt"
	"strings"
)

// promptInstructions is the fixed instructional template appended to the
// serialized payload. The narrative generator is told to produce a plain
// bullet-point prescription with one line per medicine and no precautions.
const promptInstructions = `You are a kind, professional doctor. Based on the patient information above, write a prescription.

Rules:
- Do not explain the medicines, just give the prescription.
- Respond in plain bullet points. Do not use '*' or any markdown emphasis.
- For each medicine give one line in the form: [Medicine name], [Dosage], [Times to use in a day], [Total days to use].
- Also list what to take each medicine with (water, food, etc.).
- Do not write precautions.`

// Prompt serializes the payload as lines and appends the instructional
// template, yielding the single text prompt sent to the narrative generator.
func Prompt(p Payload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Patient Name: %s\n", p.PatientName)
	fmt.Fprintf(&b, "Age: %s\n", p.PatientAge)
	b.WriteString("\n-- SYMPTOMS --\n")
	for _, item := range p.Items {
		fmt.Fprintf(&b, "- %s (Duration: %s)\n", item.Symptom, item.Duration)
		fmt.Fprintf(&b, "  (%s, %s)\n", item.MedicineName, item.MedicineType)
	}
	b.WriteString("\n")
	b.WriteString(promptInstructions)
	return b.String()
}
