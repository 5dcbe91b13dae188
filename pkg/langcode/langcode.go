package langcode

import "strings"

// names maps supported ISO 639-1 codes to display names.
var names = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"it": "Italian",
	"pt": "Portuguese",
	"ru": "Russian",
	"ja": "Japanese",
	"ko": "Korean",
	"zh": "Chinese",
	"ar": "Arabic",
	"hi": "Hindi",
	"vi": "Vietnamese",
}

// Normalize converts a language tag to a lowercase base ISO 639-1 code.
// BCP 47 tags reduce to their base language:
//   - "EN" -> "en"
//   - "fr-CA" -> "fr"
//   - "en_US" -> "en"
func Normalize(tag string) string {
	lang := strings.ToLower(strings.TrimSpace(tag))
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}

// Name returns the display name for a supported language code, or the code
// itself when unknown.
func Name(code string) string {
	if name, ok := names[Normalize(code)]; ok {
		return name
	}
	return code
}

// Supported returns the code->name map of supported languages.
func Supported() map[string]string {
	out := make(map[string]string, len(names))
	for code, name := range names {
		out[code] = name
	}
	return out
}
