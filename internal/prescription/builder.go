package prescription

import (
	"strings"

	"doctor-assistant/internal/medicine"
)

// Defaults substituted when the session did not collect a value.
const (
	AnonymousName  = "Anonymous"
	UnknownAge     = "N/A"
	NoDuration     = "not specified"
	NotFound       = "Not found"
	// NoDataText is the terminal prescription text for a session that ends
	// with nothing to prescribe. A reportable condition, not an error.
	NoDataText = "No symptoms or medicines found."
)

// SymptomDetail is the clarified per-symptom input to the builder.
type SymptomDetail struct {
	Symptom  string
	Duration string
}

// Item is one per-symptom entry of the payload.
type Item struct {
	Symptom      string `json:"symptom"`
	Duration     string `json:"duration"`
	MedicineName string `json:"medicine_name"`
	MedicineType string `json:"medicine_type"`
}

// Payload is the structured hand-off record consumed by the external
// narrative generator. Building it never fails; missing inputs degrade to
// the documented defaults.
type Payload struct {
	PatientName string `json:"patient_name"`
	PatientAge  string `json:"patient_age"`
	Items       []Item `json:"items"`
}

// IsEmpty reports whether the payload is the no-data sentinel.
func (p Payload) IsEmpty() bool {
	return len(p.Items) == 0
}

// Build assembles the payload from patient identity, clarified symptom
// details and their matched medicines, positionally paired. A details/
// medicines length mismatch is a programming error upstream; the shorter
// length wins rather than panicking on hand-off data.
func Build(patientName, patientAge string, details []SymptomDetail, medicines []medicine.Record) Payload {
	p := Payload{
		PatientName: strings.TrimSpace(patientName),
		PatientAge:  strings.TrimSpace(patientAge),
	}
	if p.PatientName == "" {
		p.PatientName = AnonymousName
	}
	if p.PatientAge == "" {
		p.PatientAge = UnknownAge
	}

	n := len(details)
	if len(medicines) < n {
		n = len(medicines)
	}
	for i := 0; i < n; i++ {
		item := Item{
			Symptom:      titleCase(details[i].Symptom),
			Duration:     strings.TrimSpace(details[i].Duration),
			MedicineName: medicines[i].MedicineName,
			MedicineType: medicines[i].MedicineType,
		}
		if item.Duration == "" {
			item.Duration = NoDuration
		}
		if item.MedicineName == "" {
			item.MedicineName = NotFound
		}
		if item.MedicineType == "" {
			item.MedicineType = NotFound
		}
		p.Items = append(p.Items, item)
	}
	return p
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
