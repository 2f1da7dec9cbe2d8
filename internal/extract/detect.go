package extract

import (
	"bufio"
	"bytes"
	"regexp"
	"strings"
)

// ResultsThreshold is the minimum score at which a document is treated as a
// meet-result report and parsed for rows.
const ResultsThreshold = 6

// scoreMaxLines bounds the scoring scan, mirroring the "first couple of
// pages" heuristic of the report layout.
const scoreMaxLines = 200

var (
	rankLineRe = regexp.MustCompile(`^\s*\d{1,3}\.\s+.+\s+(\d+:\d{2}[.,]\d{1,2}|\d+:\d{2})\s*$`)
	eventNumRe = regexp.MustCompile(`\bPRUEBA\s+\d+\b`)
)

// Score rates how strongly a document looks like a meet-result report.
// Marker phrases from the Splash report layout and the density of ranked
// result lines both contribute.
func Score(doc []byte) int {
	score := 0

	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(doc))
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	for sc.Scan() && len(lines) < scoreMaxLines {
		lines = append(lines, sc.Text())
	}

	blob := strings.Join(lines, "\n")
	up := strings.ToUpper(blob)

	if strings.Contains(up, "SPLASH MEET MANAGER") {
		score += 3
	}
	if strings.Contains(up, "RESULTADOS") {
		score += 2
	}
	if eventNumRe.MatchString(up) {
		score += 2
	}
	if strings.Contains(up, "CLASIFICACIÓN") && strings.Contains(up, "TIEMPO") {
		score += 2
	}

	hits := 0
	for _, line := range lines {
		if rankLineRe.MatchString(strings.TrimSpace(line)) {
			hits++
			if hits == 6 {
				break
			}
		}
	}
	score += hits

	return score
}

// IsResults reports whether the document scores at or above the results
// threshold, returning the score for diagnostics.
func IsResults(doc []byte) (bool, int) {
	s := Score(doc)
	return s >= ResultsThreshold, s
}
