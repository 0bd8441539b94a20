package searchquery

// stopwords are question and filler words that never make a good search term.
// Membership is checked on the lower-cased word.
var stopwords = newSet(
	"wie", "was", "wer", "wo", "wann", "warum", "welche", "welcher", "welches",
	"ist", "sind", "war", "waren", "wird", "werden", "kann", "können",
	"der", "die", "das", "den", "dem", "des", "ein", "eine", "einer", "einem",
	"und", "oder", "aber", "denn", "weil", "dass", "ob", "wenn", "als",
	"zu", "zum", "zur", "von", "vom", "bei", "mit", "für", "über", "unter",
	"ich", "du", "er", "sie", "es", "wir", "ihr", "mich", "mir", "dich", "dir",
	"nicht", "kein", "keine", "keiner", "auch", "noch", "schon", "sehr",
	"bitte", "kannst", "könntest", "würdest", "sag", "sage", "erzähl", "erkläre",
	"gib", "zeig", "zeige", "finde", "such", "suche", "vergleiche", "vergleich",
	"the", "is", "are", "were", "what", "who", "where", "when", "why", "how",
	"can", "could", "would", "please", "tell", "me", "about", "find", "compare",
	"in", "im", "an", "am", "auf",
)

// topics in detection order, the first match wins
var topics = []Topic{
	{
		Name:     Weather,
		Prefix:   "weather today",
		triggers: []string{"wetter", "temperatur", "regen", "weather", "klima"},
		excluded: newSet("wetter", "temperatur", "regen", "weather", "klima", "wie", "ist", "das"),
	},
	{
		Name:     News,
		Prefix:   "news current",
		triggers: []string{"news", "nachrichten", "aktuell", "neuigkeiten"},
		excluded: newSet("news", "nachrichten", "aktuell", "neuigkeiten"),
	},
	{
		Name:     Price,
		Prefix:   "price current",
		triggers: []string{"preis", "kosten", "price", "cost"},
		excluded: newSet("preis", "kosten", "price", "cost"),
	},
}

type set map[string]struct{}

func newSet(words ...string) set {
	ret := make(set, len(words))
	for _, w := range words {
		ret[w] = struct{}{}
	}
	return ret
}

func (s set) has(w string) bool {
	_, ok := s[w]
	return ok
}
