package wordlist

import (
	"sort"

	"glossify/internal/models"
)

const weeklyWords = `svenska;tyska
bara;nur
redan;schon
ofta;oft
alltid;immer
aldrig;nie
kanske;vielleicht
tillsammans;zusammen
idag;heute
imorgon;morgen
igår;gestern`

const allWords = `svenska;tyska
bara;nur
redan;schon
ofta;oft
alltid;immer
aldrig;nie
kanske;vielleicht
tillsammans;zusammen
idag;heute
imorgon;morgen
igår;gestern
huset;das Haus
hunden;der Hund
katten;die Katze
skolan;die Schule
boken;das Buch
vatten;das Wasser
bröd;das Brot
mjölk;die Milch
vän;der Freund
familj;die Familie
stor;groß
liten;klein
glad;froh
trött;müde
snabb;schnell
gata;die Straße
äpple;der Apfel
fönster;das Fenster
dörr;die Tür
kyrka;die Kirche`

const verbs = `svenska;tyska
jag sover;ich schlafe
du äter;du isst
han läser;er liest
hon springer;sie läuft
vi spelar;wir spielen
ni kommer;ihr kommt
de går;sie gehen
jag heter;ich heiße
du har;du hast
han är;er ist
vi bor;wir wohnen
jag stiger upp;ich stehe auf
hon ringer upp;sie ruft an`

var defaults = map[string]string{
	models.ListWeekly: weeklyWords,
	models.ListAll:    allWords,
	models.ListVerbs:  verbs,
}

// Default returns the built-in list with the given name
func Default(name string) ([]models.WordPair, bool) {
	text, ok := defaults[name]
	if !ok {
		return nil, false
	}
	return Parse(text), true
}

// DefaultNames lists the built-in lists in name order
func DefaultNames() []string {
	names := make([]string, 0, len(defaults))
	for name := range defaults {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
