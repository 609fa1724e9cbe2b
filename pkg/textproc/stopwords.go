package textproc

// englishStopwords contains common English words excluded from
// classification features.
var englishStopwords = map[string]bool{
	"the": true, "a": true, "an": true, "is": true, "are": true,
	"was": true, "were": true, "do": true, "does": true, "did": true,
	"have": true, "has": true, "had": true, "be": true, "been": true,
	"being": true, "will": true, "would": true, "could": true, "should": true,
	"may": true, "might": true, "can": true, "shall": true, "not": true,
	"no": true, "and": true, "or": true, "but": true, "if": true,
	"then": true, "than": true, "so": true, "as": true, "at": true,
	"by": true, "for": true, "from": true, "in": true, "into": true,
	"of": true, "on": true, "to": true, "with": true, "about": true,
	"up": true, "out": true, "it": true, "its": true, "this": true,
	"that": true, "what": true, "which": true, "who": true, "how": true,
	"when": true, "where": true, "why": true, "you": true, "me": true,
	"i": true, "my": true, "your": true, "we": true, "our": true,
	"they": true, "their": true, "he": true, "she": true, "her": true,
	"him": true, "his": true, "us": true, "them": true, "am": true,
	"there": true, "here": true, "any": true, "all": true, "please": true,
}

// frenchStopwords contains common French words excluded from classification
// features.
var frenchStopwords = map[string]bool{
	"le": true, "la": true, "les": true, "un": true, "une": true,
	"des": true, "de": true, "du": true, "au": true, "aux": true,
	"et": true, "ou": true, "mais": true, "donc": true, "car": true,
	"ne": true, "pas": true, "plus": true, "moins": true, "tres": true,
	"je": true, "tu": true, "il": true, "elle": true, "nous": true,
	"vous": true, "ils": true, "elles": true, "on": true, "ce": true,
	"cette": true, "ces": true, "cet": true, "mon": true, "ton": true,
	"son": true, "ma": true, "ta": true, "sa": true, "mes": true,
	"tes": true, "ses": true, "notre": true, "votre": true, "leur": true,
	"leurs": true, "qui": true, "que": true, "quoi": true, "dont": true,
	"est": true, "sont": true, "suis": true, "es": true, "sommes": true,
	"etes": true, "etre": true, "avoir": true, "ai": true, "avons": true,
	"avez": true, "ont": true, "dans": true, "sur": true, "sous": true,
	"avec": true, "sans": true, "pour": true, "par": true, "en": true,
	"se": true, "me": true, "te": true, "y": true, "si": true,
	"bonjour": true, "merci": true, "cordialement": true,
}
