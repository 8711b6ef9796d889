package language

import (
	"sort"
)

// Language represents a supported language with its per-provider naming.
// Code is the ISO code used by the primary provider; MyMemory is the
// region-qualified RFC3066 code the fallback provider expects in its
// langpair parameter.
type Language struct {
	Code     string
	Name     string
	MyMemory string
}

// Languages is a map of supported languages code -> Language.
var Languages = map[string]Language{
	"ar": {Code: "ar", Name: "Arabic", MyMemory: "ar-SA"},
	"bg": {Code: "bg", Name: "Bulgarian", MyMemory: "bg-BG"},
	"cs": {Code: "cs", Name: "Czech", MyMemory: "cs-CZ"},
	"da": {Code: "da", Name: "Danish", MyMemory: "da-DK"},
	"de": {Code: "de", Name: "German", MyMemory: "de-DE"},
	"el": {Code: "el", Name: "Greek", MyMemory: "el-GR"},
	"en": {Code: "en", Name: "English", MyMemory: "en-GB"},
	"es": {Code: "es", Name: "Spanish", MyMemory: "es-ES"},
	"fi": {Code: "fi", Name: "Finnish", MyMemory: "fi-FI"},
	"fr": {Code: "fr", Name: "French", MyMemory: "fr-FR"},
	"hi": {Code: "hi", Name: "Hindi", MyMemory: "hi-IN"},
	"hu": {Code: "hu", Name: "Hungarian", MyMemory: "hu-HU"},
	"id": {Code: "id", Name: "Indonesian", MyMemory: "id-ID"},
	"it": {Code: "it", Name: "Italian", MyMemory: "it-IT"},
	"ja": {Code: "ja", Name: "Japanese", MyMemory: "ja-JP"},
	"ko": {Code: "ko", Name: "Korean", MyMemory: "ko-KR"},
	"nl": {Code: "nl", Name: "Dutch", MyMemory: "nl-NL"},
	"no": {Code: "no", Name: "Norwegian", MyMemory: "no-NO"},
	"pl": {Code: "pl", Name: "Polish", MyMemory: "pl-PL"},
	"pt": {Code: "pt", Name: "Portuguese", MyMemory: "pt-PT"},
	"ro": {Code: "ro", Name: "Romanian", MyMemory: "ro-RO"},
	"ru": {Code: "ru", Name: "Russian", MyMemory: "ru-RU"},
	"sv": {Code: "sv", Name: "Swedish", MyMemory: "sv-SE"},
	"th": {Code: "th", Name: "Thai", MyMemory: "th-TH"},
	"tr": {Code: "tr", Name: "Turkish", MyMemory: "tr-TR"},
	"uk": {Code: "uk", Name: "Ukrainian", MyMemory: "uk-UA"},
	"vi": {Code: "vi", Name: "Vietnamese", MyMemory: "vi-VN"},
	"zh": {Code: "zh", Name: "Chinese (Simplified)", MyMemory: "zh-CN"},
}

// GetLanguage returns the language for a strict code match.
func GetLanguage(code string) (Language, bool) {
	lang, ok := Languages[code]
	return lang, ok
}

// Pair is a fixed source→target language pair configured once per run.
type Pair struct {
	Source Language
	Target Language
}

// NewPair resolves both codes or reports which one is unsupported.
func NewPair(sourceCode, targetCode string) (Pair, bool) {
	src, ok := GetLanguage(sourceCode)
	if !ok {
		return Pair{}, false
	}
	tgt, ok := GetLanguage(targetCode)
	if !ok {
		return Pair{}, false
	}
	return Pair{Source: src, Target: tgt}, true
}

// LanguageEntry represents a map entry for listing.
type LanguageEntry struct {
	ID string // The map key (CLI flag)
	Language
}

// GetSupportedLanguages returns a list of supported languages sorted by Name and then ID.
func GetSupportedLanguages() []LanguageEntry {
	entries := make([]LanguageEntry, 0, len(Languages))
	for k, v := range Languages {
		entries = append(entries, LanguageEntry{ID: k, Language: v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Name != entries[j].Name {
			return entries[i].Name < entries[j].Name
		}
		return entries[i].ID < entries[j].ID
	})
	return entries
}
