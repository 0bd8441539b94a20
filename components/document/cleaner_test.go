package document

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "hyphenated line break", input: "Die Stimm-\nlippen schwingen", expect: "Die Stimmlippen schwingen"},
		{name: "hyphen with spaces around break", input: "Kehl- \n  kopf", expect: "Kehlkopf"},
		{name: "single newline", input: "Zeile eins\nZeile zwei", expect: "Zeile eins Zeile zwei"},
		{name: "paragraph break", input: "Absatz eins\n\nAbsatz zwei", expect: "Absatz eins Absatz zwei"},
		{name: "layout glyphs", input: "■ Punkt • zwei", expect: "Punkt zwei"},
		{name: "currency sign", input: "  Preis: 5€ (ca.)  ", expect: "Preis: 5 (ca.)"},
		{name: "umlauts survive", input: "Köln, Düsseldorf; Weiß!", expect: "Köln, Düsseldorf; Weiß!"},
		{name: "quotes and dashes survive", input: `"Ton" - 'Klang'`, expect: `"Ton" - 'Klang'`},
		{name: "tabs collapse", input: "a\t\tb", expect: "a b"},
		{name: "empty", input: "", expect: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clean(tt.input); got != tt.expect {
				t.Errorf("Expect %q, but got %q", tt.expect, got)
			}
		})
	}
}

func TestCleanIdempotent(t *testing.T) {
	input := "Die Stimm-\nlippen ■ schwingen\nim Kehlkopf.\n\nNeuer Absatz"
	once := Clean(input)
	if twice := Clean(once); twice != once {
		t.Errorf("Expect %q, but got %q", once, twice)
	}
}
