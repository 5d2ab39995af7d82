package match

import "testing"

func TestKey(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases", "Graph Neural Networks", "graphneuralnetworks"},
		{"strips punctuation", "LLMs: Hype, or Hope?", "llmshypeorhope"},
		{"keeps digits", "Review 42", "review42"},
		{"empty", "", ""},
		{"only punctuation", "---___...", ""},
		{"non ascii dropped", "naïve café", "navecaf"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Key(tc.in); got != tc.want {
				t.Fatalf("Key(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestKeyIdempotent(t *testing.T) {
	inputs := []string{"", "Traffic Prediction!", "P010_final (v2).pdf", "ALL CAPS TITLE"}
	for _, in := range inputs {
		once := Key(in)
		if twice := Key(once); twice != once {
			t.Fatalf("Key(Key(%q)) = %q, want %q", in, twice, once)
		}
	}
}

func TestTokenSetDropsStopWords(t *testing.T) {
	tokens := TokenSet("The Design of a System for the Web")
	for _, stop := range []string{"the", "of", "a", "for"} {
		if _, ok := tokens[stop]; ok {
			t.Fatalf("stop word %q not removed", stop)
		}
	}
	for _, keep := range []string{"design", "system", "web"} {
		if _, ok := tokens[keep]; !ok {
			t.Fatalf("expected token %q", keep)
		}
	}
}

func TestOverlapRatio(t *testing.T) {
	a := TokenSet("graph neural networks traffic")
	b := TokenSet("graph neural networks traffic prediction models")
	if got := OverlapRatio(a, b); got != 1.0 {
		t.Fatalf("OverlapRatio = %v, want 1.0 (divided by smaller set)", got)
	}
	if got := OverlapRatio(a, TokenSet("")); got != 0 {
		t.Fatalf("OverlapRatio with empty set = %v, want 0", got)
	}
	half := OverlapRatio(TokenSet("alpha beta"), TokenSet("alpha gamma"))
	if half != 0.5 {
		t.Fatalf("OverlapRatio = %v, want 0.5", half)
	}
}
