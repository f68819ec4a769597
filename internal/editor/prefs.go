package editor

import (
	"strings"

	"github.com/Ilovko/r6s/internal/domain"
)

// DetectPreferences probes the environment for the initial language and
// theme. LANG selects Korean or Japanese by prefix and English otherwise;
// R6S_THEME=dark selects the dark theme. A loaded session overrides both.
func DetectPreferences(getenv func(string) string) Preferences {
	p := Preferences{Language: domain.LanguageEnglish, Theme: domain.ThemeLight}
	lang := strings.ToLower(getenv("LC_ALL"))
	if lang == "" {
		lang = strings.ToLower(getenv("LANG"))
	}
	switch {
	case strings.HasPrefix(lang, "ko"):
		p.Language = domain.LanguageKorean
	case strings.HasPrefix(lang, "ja"):
		p.Language = domain.LanguageJapanese
	}
	if strings.EqualFold(getenv("R6S_THEME"), string(domain.ThemeDark)) {
		p.Theme = domain.ThemeDark
	}
	return p
}
