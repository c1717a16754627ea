package model

// Theme is the UI color scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// IsValid reports whether t is a known theme.
func (t Theme) IsValid() bool {
	return t == ThemeLight || t == ThemeDark
}

// PreferenceTheme is the preferences key holding the theme.
const PreferenceTheme = "theme"

// Preferences is the singleton settings document. Keys are free-form; only
// "theme" has a meaning to the service.
type Preferences map[string]any

// DefaultPreferences is what a fresh store starts with.
func DefaultPreferences() Preferences {
	return Preferences{PreferenceTheme: string(ThemeLight)}
}

// Theme returns the stored theme, or light when unset or not a string.
func (p Preferences) Theme() Theme {
	if s, ok := p[PreferenceTheme].(string); ok && s != "" {
		return Theme(s)
	}
	return ThemeLight
}

// Merge returns a new document with updates shallow-merged over p.
func (p Preferences) Merge(updates Preferences) Preferences {
	out := make(Preferences, len(p)+len(updates))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range updates {
		out[k] = v
	}
	return out
}
