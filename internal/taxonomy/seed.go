package taxonomy

// seedHierarchy is the built-in vague->specific symptom hierarchy. Sessions
// extend it at runtime when patients clarify terms it does not know yet.
var seedHierarchy = []struct {
	parent   string
	children []string
}{
	{"pain", []string{"headache", "stomachache", "joint pain", "back pain", "chest pain"}},
	{"fever", []string{"low grade fever", "high fever", "intermittent fever"}},
	{"cough", []string{"dry cough", "wet cough", "persistent cough"}},
	{"infection", []string{"urinary tract infection", "skin infection", "respiratory infection"}},
	{"fatigue", []string{"chronic fatigue", "acute fatigue"}},
	{"rash", []string{"skin rash", "allergic rash"}},
	{"bp", []string{"low bp", "high bp"}},
	{"headache", []string{"migraine", "tension headache", "cluster headache", "sinus headache"}},
	{"stomachache", []string{"upper abdominal pain", "lower abdominal pain", "cramps"}},
	{"dizziness", []string{"lightheadedness", "vertigo", "faintness"}},
	{"nausea", []string{"morning sickness", "motion sickness", "medication-induced nausea"}},
	{"breathing", []string{"shortness of breath", "wheezing", "labored breathing"}},
	{"insomnia", []string{"difficulty falling asleep", "difficulty staying asleep", "early morning awakening"}},
	{"allergy", []string{"food allergy", "seasonal allergy", "drug allergy", "skin allergy"}},
	{"anxiety", []string{"generalized anxiety", "panic attacks", "social anxiety"}},
	{"cold", []string{"common cold", "flu", "sinus infection"}},
	{"diarrhea", []string{"acute diarrhea", "chronic diarrhea", "traveler's diarrhea"}},
}
