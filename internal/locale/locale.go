// Package locale holds per-language call behavior: language detection
// from phone numbers, voice selection, spoken number words, navigation
// keywords and the caller-visible message catalog.
package locale

import "strings"

// Locale identifies the caller's language.
type Locale string

const (
	Czech   Locale = "cs"
	Slovak  Locale = "sk"
	English Locale = "en"
	German  Locale = "de"
)

// Default is used when detection fails or a locale is unknown.
const Default = Czech

// FromNumber detects the locale from a phone number country code.
func FromNumber(number string) Locale {
	switch {
	case strings.HasPrefix(number, "+421"):
		return Slovak
	case strings.HasPrefix(number, "+1"), strings.HasPrefix(number, "+44"):
		return English
	case strings.HasPrefix(number, "+49"), strings.HasPrefix(number, "+43"):
		return German
	default:
		return Default
	}
}

// Normalize maps an unknown locale value to the default.
func Normalize(l Locale) Locale {
	switch l {
	case Czech, Slovak, English, German:
		return l
	default:
		return Default
	}
}

type voiceInfo struct {
	languageTag string
	voice       string
}

var voices = map[Locale]voiceInfo{
	Czech:   {"cs-CZ", "Google.cs-CZ-Standard-A"},
	Slovak:  {"sk-SK", "Google.sk-SK-Standard-A"},
	English: {"en-US", "Google.en-US-Standard-A"},
	German:  {"de-DE", "Google.de-DE-Standard-A"},
}

// LanguageTag returns the BCP 47 tag used in markup directives and ASR
// requests.
func (l Locale) LanguageTag() string {
	if v, ok := voices[l]; ok {
		return v.languageTag
	}
	return voices[Default].languageTag
}

// Voice returns the text-to-speech voice name for this locale.
func (l Locale) Voice() string {
	if v, ok := voices[l]; ok {
		return v.voice
	}
	return voices[Default].voice
}

// NumberWords returns the spoken words for 1..n in this locale, lowest
// first. Index i holds the word for i+1.
func (l Locale) NumberWords() []string {
	switch l {
	case Slovak:
		return []string{"jeden", "dva", "tri", "štyri", "päť", "šesť"}
	case English:
		return []string{"one", "two", "three", "four", "five", "six"}
	case German:
		return []string{"eins", "zwei", "drei", "vier", "fünf", "sechs"}
	default:
		return []string{"jedna", "dva", "tři", "čtyři", "pět", "šest"}
	}
}

// LocalLetters reports characters outside plain ASCII that a genuine
// transcript in this locale is likely to contain. Used by the nonsense
// heuristic on primary transcripts.
func (l Locale) LocalLetters() string {
	switch l {
	case Slovak:
		return "áäčďéíĺľňóôŕšťúýž"
	case German:
		return "äöüß"
	case English:
		return ""
	default:
		return "áčďéěíňóřšťúůýž"
	}
}
