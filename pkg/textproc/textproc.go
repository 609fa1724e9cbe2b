package textproc

import (
	"strings"
	"unicode"
)

// Language tags the detected language of an email.
type Language string

const (
	LanguageEnglish Language = "english"
	LanguageFrench  Language = "french"
)

// frenchMarkers are words specific enough to French to vote for it during
// language detection.
var frenchMarkers = map[string]bool{
	"je": true, "tu": true, "il": true, "elle": true, "nous": true,
	"vous": true, "ils": true, "elles": true, "le": true, "la": true,
	"les": true, "un": true, "une": true, "des": true, "ce": true,
	"cette": true, "mon": true, "ton": true, "son": true, "notre": true,
	"votre": true, "leur": true, "bonjour": true, "merci": true,
	"salut": true, "oui": true, "non": true,
}

// englishMarkers are the English counterparts.
var englishMarkers = map[string]bool{
	"i": true, "you": true, "he": true, "she": true, "we": true,
	"they": true, "the": true, "a": true, "an": true, "this": true,
	"these": true, "those": true, "my": true, "your": true, "his": true,
	"her": true, "our": true, "their": true, "hello": true, "thank": true,
	"goodbye": true, "hi": true, "yes": true, "no": true,
}

// DetectLanguage decides between French and English by counting
// language-specific marker words. Empty or ambiguous text defaults to
// English.
func DetectLanguage(text string) Language {
	if strings.TrimSpace(text) == "" {
		return LanguageEnglish
	}
	frenchCount, englishCount := 0, 0
	for _, token := range splitWords(text) {
		if frenchMarkers[token] {
			frenchCount++
		}
		if englishMarkers[token] {
			englishCount++
		}
	}
	if frenchCount > englishCount {
		return LanguageFrench
	}
	return LanguageEnglish
}

// splitWords lowercases and splits on anything that is not a letter.
func splitWords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// Tokenize normalizes an email text into stemmed, stopword-free tokens:
// lowercase, strip punctuation and digits, drop stopwords for the detected
// language, stem what remains.
func Tokenize(text string) []string {
	lang := DetectLanguage(text)
	stop := englishStopwords
	if lang == LanguageFrench {
		stop = frenchStopwords
	}

	words := splitWords(text)
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if len(w) < 2 || stop[w] {
			continue
		}
		tokens = append(tokens, Stem(w, lang))
	}
	return tokens
}

// Stem applies a light suffix-stripping stemmer. It is deliberately crude:
// the classifiers only need consistent token collapsing, not linguistic
// correctness.
func Stem(word string, lang Language) string {
	if lang == LanguageFrench {
		return stemFrench(word)
	}
	return stemEnglish(word)
}

var englishSuffixes = []string{"ational", "iveness", "fulness", "ization", "ations", "ingly", "ation", "ments", "ment", "ness", "ing", "edly", "ies", "ied", "ely", "ed", "ly", "es", "s"}

func stemEnglish(word string) string {
	for _, suffix := range englishSuffixes {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}

var frenchSuffixes = []string{"issement", "issant", "ements", "ement", "erons", "eront", "erais", "erait", "antes", "ances", "ence", "ante", "ance", "ions", "teur", "trice", "eux", "aux", "ant", "ent", "ait", "er", "es", "e", "s"}

func stemFrench(word string) string {
	for _, suffix := range frenchSuffixes {
		if strings.HasSuffix(word, suffix) && len(word)-len(suffix) >= 3 {
			return word[:len(word)-len(suffix)]
		}
	}
	return word
}
