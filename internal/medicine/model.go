package medicine

// Record is one row of the medicine dataset: a symptom key and the medicine
// recommended for it. The dataset is read-only from this package's point of
// view; records are either looked up or synthesized as fallbacks.
type Record struct {
	Symptom              string `json:"symptom"`
	MedicineName         string `json:"medicine_name"`
	MedicineType         string `json:"medicine_type"`
	CommonSideEffects    string `json:"common_side_effects"`
	PrescriptionRequired string `json:"prescription_required"`
}
