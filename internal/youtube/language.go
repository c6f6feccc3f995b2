package youtube

import (
	"strings"
	"sync"

	"github.com/pemistahl/lingua-go"
)

// The detector is expensive to build, so it is shared and lazy. The
// language set covers what actually shows up in quiz-show captions.
var detectorOnce = sync.OnceValue(func() lingua.LanguageDetector {
	return lingua.NewLanguageDetectorBuilder().
		FromLanguages(
			lingua.English,
			lingua.French,
			lingua.German,
			lingua.Spanish,
			lingua.Italian,
			lingua.Dutch,
		).
		Build()
})

// detectLanguage guesses the language of text, returning a display name
// and lowercase ISO 639-1 code.
func detectLanguage(text string) (name, code string, ok bool) {
	if strings.TrimSpace(text) == "" {
		return "", "", false
	}
	lang, ok := detectorOnce().DetectLanguageOf(text)
	if !ok {
		return "", "", false
	}
	return lang.String(), strings.ToLower(lang.IsoCode639_1().String()), true
}
