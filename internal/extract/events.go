package extract

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// strokeSynonyms maps the canonical stroke name to every spelling seen in
// meet reports (Spanish and English, Splash exports both).
var strokeSynonyms = map[string][]string{
	"LIBRE":    {"LIBRE", "LIBRES", "CROL", "CRAWL", "FREE", "FREESTYLE"},
	"ESPALDA":  {"ESPALDA", "BACK", "BACKSTROKE"},
	"BRAZA":    {"BRAZA", "BRASA", "BREAST", "BREASTSTROKE"},
	"MARIPOSA": {"MARIPOSA", "FLY", "BUTTERFLY"},
	"ESTILOS":  {"ESTILOS", "MEDLEY", "IM"},
}

var (
	strokeByVariant = map[string]string{}
	eventRe         *regexp.Regexp
	bareDistRe      = regexp.MustCompile(`\b(\d{2,4})\b`)
)

func init() {
	var variants []string
	for canon, vs := range strokeSynonyms {
		for _, v := range vs {
			strokeByVariant[v] = canon
			variants = append(variants, regexp.QuoteMeta(v))
		}
	}
	// Longest first so FREESTYLE wins over FREE.
	sort.Slice(variants, func(i, j int) bool { return len(variants[i]) > len(variants[j]) })
	eventRe = regexp.MustCompile(`(?i)\b(\d{2,4})\s*(?:m\b|M\b)?\s*(` + strings.Join(variants, "|") + `)\b`)
}

func canonicalStroke(token string) string {
	return strokeByVariant[strings.ToUpper(strings.TrimSpace(token))]
}

func strokeDisplay(canon string) string {
	if canon == "LIBRE" {
		return "Libre"
	}
	return strings.ToUpper(canon[:1]) + strings.ToLower(canon[1:])
}

// NormalizeEvent reduces a raw event label to its canonical
// "<distance>m <Stroke>" form. When no stroke is recognized the label is
// returned unchanged (whitespace-collapsed) with whatever distance was found.
func NormalizeEvent(raw string) (label string, dist int, stroke string) {
	s := spaceRun.ReplaceAllString(strings.TrimSpace(raw), " ")
	if m := eventRe.FindStringSubmatch(s); m != nil {
		if canon := canonicalStroke(m[2]); canon != "" {
			d, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%dm %s", d, strokeDisplay(canon)), d, canon
		}
	}
	if m := bareDistRe.FindStringSubmatch(s); m != nil {
		dist, _ = strconv.Atoi(m[1])
	}
	return s, dist, ""
}

// SplitEventCategory pulls the canonical event out of an event-header rest
// string; whatever text remains around it becomes the age-category label.
func SplitEventCategory(rest string) (event, category string) {
	s := spaceRun.ReplaceAllString(strings.TrimSpace(rest), " ")
	loc := eventRe.FindStringSubmatchIndex(s)
	if loc == nil {
		event, _, _ = NormalizeEvent(s)
		return event, ""
	}

	distTok := s[loc[2]:loc[3]]
	strokeTok := s[loc[4]:loc[5]]
	canon := canonicalStroke(strokeTok)
	if canon == "" {
		event, _, _ = NormalizeEvent(s)
		return event, ""
	}

	d, _ := strconv.Atoi(distTok)
	event = fmt.Sprintf("%dm %s", d, strokeDisplay(canon))

	category = strings.TrimSpace(s[:loc[0]] + " " + s[loc[1]:])
	category = spaceRun.ReplaceAllString(category, " ")
	return event, strings.TrimSpace(category)
}
