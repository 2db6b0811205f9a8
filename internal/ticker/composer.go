package ticker

import "strings"

// Separator is the bullet used between ticker segments and between
// padding repetitions.
const Separator = "   •   "

// Compose joins the non-empty parts with the bullet separator, then
// repeats the whole joined unit until the result reaches minLen. The
// scroll animation runs at a fixed pixel speed, so short content would
// cross the screen and leave a gap; padding makes the line long enough
// to fill the full animation cycle. Repetition units are never cut.
func Compose(parts []string, minLen int) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	if len(kept) == 0 {
		return ""
	}

	base := strings.Join(kept, Separator)
	result := base
	for len(result) < minLen {
		result += Separator + base
	}
	return result
}
