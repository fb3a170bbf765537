package session

// DefaultLanguage is the target code a fresh session starts with.
const DefaultLanguage = "ur"

type Language struct {
	Name string
	Code string
}

// languageOptions is the fixed selection surface. Order matters: it is the
// order shells display and cycle through.
var languageOptions = []Language{
	{"French", "fr"},
	{"Spanish", "es"},
	{"German", "de"},
	{"Urdu", "ur"},
	{"Hindi", "hi"},
	{"Arabic", "ar"},
}

// Languages returns the selectable target languages.
func Languages() []Language {
	out := make([]Language, len(languageOptions))
	copy(out, languageOptions)
	return out
}

// Supported reports whether code is on the declared selection surface.
func Supported(code string) bool {
	for _, l := range languageOptions {
		if l.Code == code {
			return true
		}
	}
	return false
}

// LanguageName resolves a code to its display name. Unknown codes resolve to
// the code itself so rendering never fails.
func LanguageName(code string) string {
	for _, l := range languageOptions {
		if l.Code == code {
			return l.Name
		}
	}
	return code
}
