package evaluate

import "voice-tutor-service/internal/textnorm"

// answerSynonyms maps normalized spoken phrases to the normalized
// option text they stand for. Callers often answer with the everyday
// name of a thing instead of the wording in the option list.
//
// TODO: move these onto the question payload as authored synonym lists
// so content editors can extend them without a deploy.
var answerSynonyms = map[string]string{
	"zachranka":         "zavolat zachrannou sluzbu",
	"sanitka":           "zavolat zachrannou sluzbu",
	"zavolat 155":       "zavolat zachrannou sluzbu",
	"hasicak":           "hasici pristroj",
	"hasici prostredek": "hasici pristroj",
	"lekarnicka":        "prvni pomoc",
	"privolat pomoc":    "prvni pomoc",
	"ambulance":         "emergency services",
	"call an ambulance": "emergency services",
	"fire extinguisher": "extinguisher",
	"krankenwagen":      "rettungsdienst",
	"notruf":            "rettungsdienst",
}

// synonymMatches reports whether the utterance contains a known phrase
// whose canonical form matches the correct option.
func synonymMatches(norm, correctOption string) bool {
	canonical := textnorm.Normalize(correctOption)
	for phrase, target := range answerSynonyms {
		if !textnorm.Contains(norm, phrase) {
			continue
		}
		if target == canonical || textnorm.Contains(canonical, target) || textnorm.Contains(target, canonical) {
			return true
		}
	}
	return false
}
