package normalize

import "strings"

// Sex folds a printed sex marker (FEM., MASC., F, M, ...) into the stored
// single-letter form. Unrecognized markers pass through uppercased so they
// stay visible instead of silently merging.
func Sex(s string) string {
	v := strings.ToUpper(strings.TrimSpace(strings.ReplaceAll(s, ".", "")))
	switch v {
	case "FEM", "F", "FEMALE", "W":
		return "F"
	case "MASC", "M", "MALE":
		return "M"
	}
	return v
}
