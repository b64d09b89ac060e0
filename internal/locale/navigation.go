package locale

import "strings"

// Command is a session navigation action spoken or keyed by the caller.
type Command string

const (
	CmdRepeatLesson   Command = "repeat_lesson"
	CmdNextLesson     Command = "next_lesson"
	CmdPreviousLesson Command = "previous_lesson"
	CmdEndSession     Command = "end_session"
)

// digitCommands maps DTMF digits to navigation commands. Digits are
// locale independent.
var digitCommands = map[string]Command{
	"1": CmdRepeatLesson,
	"2": CmdNextLesson,
	"3": CmdPreviousLesson,
	"4": CmdEndSession,
}

// CommandFromDigit resolves a keyed digit to a navigation command.
func CommandFromDigit(digit string) (Command, bool) {
	c, ok := digitCommands[digit]
	return c, ok
}

// navigationKeywords maps spoken keywords to commands per locale.
// Number words double as menu choices in the navigation menu.
var navigationKeywords = map[Locale]map[string]Command{
	Czech: {
		"jedna": CmdRepeatLesson, "zopakovat": CmdRepeatLesson, "opakovat": CmdRepeatLesson,
		"dva": CmdNextLesson, "další": CmdNextLesson, "dalsi": CmdNextLesson,
		"tři": CmdPreviousLesson, "předchozí": CmdPreviousLesson, "predchozi": CmdPreviousLesson,
		"čtyři": CmdEndSession, "ukončit": CmdEndSession, "konec": CmdEndSession,
	},
	Slovak: {
		"jeden": CmdRepeatLesson, "zopakovať": CmdRepeatLesson,
		"dva": CmdNextLesson, "ďalšia": CmdNextLesson, "ďalej": CmdNextLesson,
		"tri": CmdPreviousLesson, "predchádzajúca": CmdPreviousLesson,
		"štyri": CmdEndSession, "ukončiť": CmdEndSession, "koniec": CmdEndSession,
	},
	English: {
		"one": CmdRepeatLesson, "repeat": CmdRepeatLesson,
		"two": CmdNextLesson, "next": CmdNextLesson,
		"three": CmdPreviousLesson, "previous": CmdPreviousLesson, "back": CmdPreviousLesson,
		"four": CmdEndSession, "end": CmdEndSession, "stop": CmdEndSession,
	},
	German: {
		"eins": CmdRepeatLesson, "wiederholen": CmdRepeatLesson,
		"zwei": CmdNextLesson, "nächste": CmdNextLesson, "weiter": CmdNextLesson,
		"drei": CmdPreviousLesson, "vorherige": CmdPreviousLesson, "zurück": CmdPreviousLesson,
		"vier": CmdEndSession, "beenden": CmdEndSession, "ende": CmdEndSession,
	},
}

// CommandFromUtterance scans an utterance for a navigation keyword of
// the given locale. Digits spoken as "1".."4" also count.
func CommandFromUtterance(utterance string, l Locale) (Command, bool) {
	kw := navigationKeywords[Normalize(l)]
	for _, w := range strings.Fields(strings.ToLower(utterance)) {
		w = strings.Trim(w, ".,!?")
		if c, ok := kw[w]; ok {
			return c, true
		}
		if c, ok := digitCommands[w]; ok {
			return c, true
		}
	}
	return "", false
}
