package textproc

import (
	"testing"
)

func TestDetectLanguage(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected Language
	}{
		{
			name:     "english greeting",
			text:     "Hello, I would like to know more about your products",
			expected: LanguageEnglish,
		},
		{
			name:     "french greeting",
			text:     "Bonjour, je suis intéressé par vos services, merci d'avance",
			expected: LanguageFrench,
		},
		{
			name:     "empty defaults to english",
			text:     "",
			expected: LanguageEnglish,
		},
		{
			name:     "ambiguous defaults to english",
			text:     "urgent outage production",
			expected: LanguageEnglish,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectLanguage(tt.text); got != tt.expected {
				t.Errorf("DetectLanguage(%q) = %q, want %q", tt.text, got, tt.expected)
			}
		})
	}
}

func TestTokenizeDropsStopwordsAndNoise(t *testing.T) {
	tokens := Tokenize("The system is down! Error 500 on the main server.")

	for _, tok := range tokens {
		if tok == "the" || tok == "is" || tok == "on" {
			t.Errorf("stopword %q survived tokenization", tok)
		}
		if tok == "500" {
			t.Error("digits survived tokenization")
		}
	}
	if len(tokens) == 0 {
		t.Fatal("expected content tokens, got none")
	}
}

func TestTokenizeStemsConsistently(t *testing.T) {
	// Inflected forms of the same word must collapse to one token so the
	// classifiers see them as the same feature.
	a := Tokenize("processing payments")
	b := Tokenize("processed payment")

	if len(a) != 2 || len(b) != 2 {
		t.Fatalf("unexpected token counts: %v %v", a, b)
	}
	if a[0] != b[0] {
		t.Errorf("stems differ: %q vs %q", a[0], b[0])
	}
	if a[1] != b[1] {
		t.Errorf("stems differ: %q vs %q", a[1], b[1])
	}
}

func TestStemEnglish(t *testing.T) {
	tests := []struct {
		word, want string
	}{
		{"running", "runn"},
		{"payments", "pay"},
		{"cat", "cat"},
		{"ed", "ed"},
	}
	for _, tt := range tests {
		if got := Stem(tt.word, LanguageEnglish); got != tt.want {
			t.Errorf("Stem(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}
