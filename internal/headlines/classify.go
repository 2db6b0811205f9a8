package headlines

import "strings"

// sportGlyphs maps a sport to its ticker emoji; sportOrder fixes the
// match precedence so a title mentioning two sports classifies
// deterministically.
var sportOrder = []string{"hockey", "basketball", "baseball", "football", "soccer"}

var sportKeywords = map[string][]string{
	"hockey":     {"hockey", "nhl"},
	"basketball": {"basketball", "nba"},
	"baseball":   {"baseball", "mlb", "blue jays"},
	"football":   {"football", "nfl", "cfl"},
	"soccer":     {"soccer", "mls", "fifa"},
}

var sportGlyphs = map[string]string{
	"hockey":     "🏒",
	"basketball": "🏀",
	"baseball":   "⚾",
	"football":   "🏈",
	"soccer":     "⚽",
}

const genericGlyph = "📰"

var categoryGlyphs = map[string]string{
	"LOCAL": "📍",
	"WORLD": "🌍",
}

// Classify returns the sport emoji for a headline, or the generic news
// glyph when no sport keyword matches.
func Classify(title string) string {
	lower := strings.ToLower(title)
	for _, sport := range sportOrder {
		for _, kw := range sportKeywords[sport] {
			if strings.Contains(lower, kw) {
				return sportGlyphs[sport]
			}
		}
	}
	return genericGlyph
}

// CategoryGlyph is the fixed prefix used for non-sports feeds.
func CategoryGlyph(category string) string {
	if g, ok := categoryGlyphs[strings.ToUpper(category)]; ok {
		return g
	}
	return genericGlyph
}
