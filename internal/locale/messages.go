package locale

// The caller-visible message catalog. Czech is the canonical text and
// the fallback for any missing translation.

type catalog map[Locale]string

func (c catalog) get(l Locale) string {
	if s, ok := c[Normalize(l)]; ok {
		return s
	}
	return c[Default]
}

var (
	msgWelcome = catalog{
		Czech:   "Vítejte v systému Lecture. Jsem váš asistent pro vzdělávání.",
		Slovak:  "Vitajte v systéme Lecture. Som váš asistent pre vzdelávanie.",
		English: "Welcome to the Lecture system. I am your learning assistant.",
		German:  "Willkommen im Lecture-System. Ich bin Ihr Lernassistent.",
	}
	msgLessonDone = catalog{
		Czech:   "Lekce dokončena. Začínáme test.",
		Slovak:  "Lekcia dokončená. Začíname test.",
		English: "Lesson completed. Starting the test.",
		German:  "Lektion abgeschlossen. Der Test beginnt.",
	}
	msgNoTest = catalog{
		Czech:   "Lekce dokončena. Test není k dispozici.",
		Slovak:  "Lekcia dokončená. Test nie je k dispozícii.",
		English: "Lesson completed. No test is available.",
		German:  "Lektion abgeschlossen. Es ist kein Test verfügbar.",
	}
	msgCorrect = catalog{
		Czech:   "Správně!",
		Slovak:  "Správne!",
		English: "Correct!",
		German:  "Richtig!",
	}
	msgIncorrect = catalog{
		Czech:   "Špatně.",
		Slovak:  "Nesprávne.",
		English: "Incorrect.",
		German:  "Falsch.",
	}
	msgAmbiguous = catalog{
		Czech:   "Nerozuměl jsem jednoznačně. Řekněte prosím jen jednu možnost.",
		Slovak:  "Nerozumel som jednoznačne. Povedzte prosím len jednu možnosť.",
		English: "I could not pick one answer. Please say a single choice.",
		German:  "Ich konnte keine Antwort erkennen. Bitte nennen Sie nur eine Möglichkeit.",
	}
	msgRepeatLesson = catalog{
		Czech:   "Zopakujeme lekci.",
		Slovak:  "Zopakujeme lekciu.",
		English: "Repeating the lesson.",
		German:  "Die Lektion wird wiederholt.",
	}
	msgNextLesson = catalog{
		Czech:   "Načítám další lekci.",
		Slovak:  "Načítavam ďalšiu lekciu.",
		English: "Loading the next lesson.",
		German:  "Die nächste Lektion wird geladen.",
	}
	msgPreviousLesson = catalog{
		Czech:   "Načítám předchozí lekci.",
		Slovak:  "Načítavam predchádzajúcu lekciu.",
		English: "Loading the previous lesson.",
		German:  "Die vorherige Lektion wird geladen.",
	}
	msgNoNextLesson = catalog{
		Czech:   "Žádná další lekce nenavazuje.",
		Slovak:  "Žiadna ďalšia lekcia nenadväzuje.",
		English: "There is no next lesson.",
		German:  "Es gibt keine nächste Lektion.",
	}
	msgNoPreviousLesson = catalog{
		Czech:   "Žádná předchozí lekce není k dispozici.",
		Slovak:  "Žiadna predchádzajúca lekcia nie je k dispozícii.",
		English: "There is no previous lesson.",
		German:  "Es gibt keine vorherige Lektion.",
	}
	msgGoodbye = catalog{
		Czech:   "Děkuji za účast. Na shledanou!",
		Slovak:  "Ďakujem za účasť. Dovidenia!",
		English: "Thank you for participating. Goodbye!",
		German:  "Vielen Dank für Ihre Teilnahme. Auf Wiederhören!",
	}
	msgApology = catalog{
		Czech:   "Omlouvám se, došlo k technické chybě. Zkuste to prosím později.",
		Slovak:  "Ospravedlňujem sa, došlo k technickej chybe. Skúste to prosím neskôr.",
		English: "We are sorry, a technical error occurred. Please try again later.",
		German:  "Es tut uns leid, ein technischer Fehler ist aufgetreten. Bitte versuchen Sie es später erneut.",
	}
	msgChooseOption = catalog{
		Czech:   "Prosím, vyberte možnost.",
		Slovak:  "Prosím, vyberte možnosť.",
		English: "Please choose an option.",
		German:  "Bitte wählen Sie eine Option.",
	}
	msgNavigationMenu = catalog{
		Czech:   "Navigační menu: 1 - Zopakovat lekci, 2 - Další lekce, 3 - Předchozí lekce, 4 - Ukončit relaci.",
		Slovak:  "Navigačné menu: 1 - Zopakovať lekciu, 2 - Ďalšia lekcia, 3 - Predchádzajúca lekcia, 4 - Ukončiť reláciu.",
		English: "Navigation menu: 1 - Repeat lesson, 2 - Next lesson, 3 - Previous lesson, 4 - End session.",
		German:  "Navigationsmenü: 1 - Lektion wiederholen, 2 - Nächste Lektion, 3 - Vorherige Lektion, 4 - Sitzung beenden.",
	}
	msgScoreExcellent = catalog{
		Czech:   "Výborně! Máte skvělé výsledky.",
		Slovak:  "Výborne! Máte skvelé výsledky.",
		English: "Excellent! You have great results.",
		German:  "Ausgezeichnet! Sie haben großartige Ergebnisse.",
	}
	msgScoreGood = catalog{
		Czech:   "Dobře! Máte dobré výsledky.",
		Slovak:  "Dobre! Máte dobré výsledky.",
		English: "Well done! You have good results.",
		German:  "Gut gemacht! Sie haben gute Ergebnisse.",
	}
	msgScoreAverage = catalog{
		Czech:   "Průměrně. Zkuste to znovu.",
		Slovak:  "Priemerne. Skúste to znovu.",
		English: "Average. Try again.",
		German:  "Durchschnittlich. Versuchen Sie es erneut.",
	}
	msgScorePoor = catalog{
		Czech:   "Potřebujete více procvičit.",
		Slovak:  "Potrebujete viac precvičiť.",
		English: "You need more practice.",
		German:  "Sie brauchen mehr Übung.",
	}
)

// Message accessors. Each takes the locale and returns the translated
// text, defaulting to Czech.

func Welcome(l Locale) string          { return msgWelcome.get(l) }
func LessonDone(l Locale) string       { return msgLessonDone.get(l) }
func NoTest(l Locale) string           { return msgNoTest.get(l) }
func Correct(l Locale) string          { return msgCorrect.get(l) }
func Incorrect(l Locale) string        { return msgIncorrect.get(l) }
func Ambiguous(l Locale) string        { return msgAmbiguous.get(l) }
func RepeatLesson(l Locale) string     { return msgRepeatLesson.get(l) }
func NextLesson(l Locale) string       { return msgNextLesson.get(l) }
func PreviousLesson(l Locale) string   { return msgPreviousLesson.get(l) }
func NoNextLesson(l Locale) string     { return msgNoNextLesson.get(l) }
func NoPreviousLesson(l Locale) string { return msgNoPreviousLesson.get(l) }
func Goodbye(l Locale) string          { return msgGoodbye.get(l) }
func Apology(l Locale) string          { return msgApology.get(l) }
func ChooseOption(l Locale) string     { return msgChooseOption.get(l) }
func NavigationMenu(l Locale) string   { return msgNavigationMenu.get(l) }

// ScoreFeedback returns the spoken feedback band for a final test
// percentage.
func ScoreFeedback(l Locale, percentage int) string {
	switch {
	case percentage >= 90:
		return msgScoreExcellent.get(l)
	case percentage >= 70:
		return msgScoreGood.get(l)
	case percentage >= 50:
		return msgScoreAverage.get(l)
	default:
		return msgScorePoor.get(l)
	}
}
