// Package nav builds the language selector menu for the site header.
package nav

// LangOption is a selectable entry in the language dropdown.
type LangOption struct {
	Code     string
	LabelKey string // i18n key, e.g. "lang.be"
	Active   bool
}

// Languages renders the dropdown entries with the active state for the
// current language. Selecting the active entry is a no-op client-side; the
// switch endpoint also treats it as one.
func Languages(supported []string, current string) []LangOption {
	out := make([]LangOption, 0, len(supported))
	for _, code := range supported {
		out = append(out, LangOption{
			Code:     code,
			LabelKey: "lang." + code,
			Active:   code == current,
		})
	}
	return out
}
