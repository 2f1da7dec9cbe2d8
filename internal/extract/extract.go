// Package extract parses meet-result documents into raw race-result records.
// Documents are tolerant-pattern-matched line by line: lines that don't look
// like result rows are noise and skipped, a bad row never fails the document.
package extract

import (
	"bufio"
	"bytes"
	"iter"
	"regexp"
	"strings"
)

// maxLineSize bounds a single scanned line; result rows are short, anything
// beyond this is binary junk.
const maxLineSize = 1024 * 1024

// Drop reasons recorded for rows that match the result pattern but miss a
// required field.
const (
	ReasonNoEventHeader = "no event header before row"
	ReasonNoMeetDate    = "no meet date in document"
	ReasonNoYearDigits  = "missing birth-year digits"
	ReasonNoSwimmer     = "missing swimmer name"
	ReasonNoRankPrefix  = "no rank prefix on row"
)

// RawResult is one race entry as printed in the source document, before any
// normalization.
type RawResult struct {
	Swimmer       string // name as printed
	YearDigits    string // two-digit birth year, "08" style; not an age
	Event         string // canonical event label, e.g. "400m Libre"
	EventCategory string // age-category text from the event header, may be empty
	EventNum      string // event number from the header
	Sex           string // sex marker as printed, dot stripped: FEM / MASC
	Date          string // meet date string as printed, e.g. 01/06/2005
	Time          string // race time as printed, comma folded to dot
	Line          string // the raw source line, for provenance
	Source        string // source document path
}

var (
	placeDateRe = regexp.MustCompile(`^(.+),\s*(\d{1,2}/\d{1,2}/\d{4})\s*$`)
	eventHdrRe  = regexp.MustCompile(`(?i)^PRUEBA\s+(\d+)\s+(FEM\.|MASC\.)\s*,?\s*(.+?)\s*$`)
	timeAtEnd   = regexp.MustCompile(`(\d+:\d{2}(?:[.,]\s*\d{1,2})?|\d{1,3}[.,]\s*\d{1,2})\s*$`)
	posPrefixRe = regexp.MustCompile(`^\d{1,3}\.\s+`)
	spaceRun    = regexp.MustCompile(`\s+`)

	// Start of a "SURNAME, Name" token; used to split lines carrying several
	// swimmers (relay and lane summaries).
	nameStartRe = regexp.MustCompile(`[A-ZÁÉÍÓÚÜÑ][A-ZÁÉÍÓÚÜÑ ]+,\s*[A-Za-zÁÉÍÓÚÜÑ]`)

	// Trailing decorations after the time: point deltas (+0,72), FINA point
	// integers, point decimals and dash placeholders.
	trailDeltaRe  = regexp.MustCompile(`\s+\+\d{1,3},\d{2}\s*$`)
	trailIntRe    = regexp.MustCompile(`\s+\d{1,5}\s*$`)
	trailPointsRe = regexp.MustCompile(`\s+\d{1,4},\d{2}\s*$`)
	trailDashRe   = regexp.MustCompile(`\s*[-–—]\s*$`)

	// PDF column glue: letter and digit columns fused into one token,
	// e.g. "Lola12A.D." -> "Lola 12 A.D.".
	glueLetterDigit = regexp.MustCompile(`([\p{L}])(\d)`)
	glueDigitLetter = regexp.MustCompile(`(\d)([\p{L}])`)

	yearDigitsRe = regexp.MustCompile(`\b\d{1,2}\b`)
	bareNumRe    = regexp.MustCompile(`^\d{1,3}$`)
)

// Results extracts raw race results from a document's text. The returned
// sequence is lazy, finite and non-restartable: it consumes the document
// once, preserving line order. Rows matching the result pattern but missing
// a required field are reported through drop (may be nil) and skipped; lines
// that don't look like result rows at all are skipped silently.
func Results(doc []byte, source string, drop func(line, reason string)) iter.Seq[RawResult] {
	return func(yield func(RawResult) bool) {
		var (
			meetDate string
			event    string
			category string
			eventNum string
			sex      string
		)

		reject := func(line, reason string) {
			if drop != nil {
				drop(line, reason)
			}
		}

		sc := bufio.NewScanner(bytes.NewReader(doc))
		sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

		for sc.Scan() {
			raw := strings.TrimSpace(sc.Text())
			if raw == "" {
				continue
			}

			if meetDate == "" {
				if m := placeDateRe.FindStringSubmatch(raw); m != nil && !timeAtEnd.MatchString(raw) {
					meetDate = m[2]
					continue
				}
			}

			for i, ln := range splitMultiSwimmer(raw) {
				if m := eventHdrRe.FindStringSubmatch(ln); m != nil {
					eventNum = m[1]
					sex = strings.ToUpper(strings.ReplaceAll(m[2], ".", ""))
					event, category = SplitEventCategory(m[3])
					category = strings.ToUpper(category)
					continue
				}

				up := strings.ToUpper(ln)
				if strings.HasPrefix(up, "DSQ") || strings.HasPrefix(up, "NP") || strings.HasPrefix(up, "BAJA") {
					continue // withdrawals and disqualifications carry no time
				}

				ln = trailDeltaRe.ReplaceAllString(ln, "")
				ln = trailIntRe.ReplaceAllString(ln, "")
				ln = trailPointsRe.ReplaceAllString(ln, "")
				ln = trailDashRe.ReplaceAllString(ln, "")

				loc := timeAtEnd.FindStringSubmatchIndex(ln)
				if loc == nil {
					continue
				}
				// Only the first swimmer on a line carries the rank prefix.
				if i == 0 && !posPrefixRe.MatchString(ln) {
					reject(ln, ReasonNoRankPrefix)
					continue
				}

				timeStr := spaceRun.ReplaceAllString(ln[loc[2]:loc[3]], "")
				timeStr = strings.ReplaceAll(timeStr, ",", ".")

				prefix := spaceRun.ReplaceAllString(strings.TrimSpace(ln[:loc[0]]), " ")
				swimmer, yearDigits := splitNameYearDigits(prefix)

				switch {
				case event == "" || sex == "":
					reject(ln, ReasonNoEventHeader)
					continue
				case meetDate == "":
					reject(ln, ReasonNoMeetDate)
					continue
				case yearDigits == "":
					reject(ln, ReasonNoYearDigits)
					continue
				case swimmer == "":
					reject(ln, ReasonNoSwimmer)
					continue
				}

				r := RawResult{
					Swimmer:       swimmer,
					YearDigits:    yearDigits,
					Event:         event,
					EventCategory: category,
					EventNum:      eventNum,
					Sex:           sex,
					Date:          meetDate,
					Time:          timeStr,
					Line:          ln,
					Source:        source,
				}
				if !yield(r) {
					return
				}
			}
		}
	}
}

// splitMultiSwimmer splits one extracted line into swimmer sub-lines when
// several "SURNAME, Name" tokens share it. The first sub-line is anchored at
// the start of the line so it keeps its rank prefix.
func splitMultiSwimmer(ln string) []string {
	locs := nameStartRe.FindAllStringIndex(ln, -1)
	if len(locs) <= 1 {
		return []string{ln}
	}

	starts := make([]int, 0, len(locs)+1)
	starts = append(starts, 0)
	for _, l := range locs[1:] {
		starts = append(starts, l[0])
	}
	starts = append(starts, len(ln))

	parts := make([]string, 0, len(locs))
	for i := 0; i < len(starts)-1; i++ {
		parts = append(parts, strings.TrimSpace(ln[starts[i]:starts[i+1]]))
	}
	return parts
}

// splitNameYearDigits separates the swimmer name from the two-digit
// birth-year token in a result-row prefix. The year is the last standalone
// 1-2 digit number; club text after it is discarded. Returns an empty
// yearDigits when no usable token exists.
func splitNameYearDigits(prefix string) (name, yearDigits string) {
	s := posPrefixRe.ReplaceAllString(prefix, "")
	s = glueLetterDigit.ReplaceAllString(s, "$1 $2")
	s = glueDigitLetter.ReplaceAllString(s, "$1 $2")
	s = strings.TrimSpace(spaceRun.ReplaceAllString(s, " "))

	locs := yearDigitsRe.FindAllStringIndex(s, -1)
	for i := len(locs) - 1; i >= 0; i-- {
		start, end := locs[i][0], locs[i][1]
		if start > 1 {
			name = strings.TrimSpace(s[:start])
			yy := s[start:end]
			if len(yy) == 1 {
				yy = "0" + yy
			}
			return name, yy
		}
	}

	// No year token: keep leading name tokens so callers can report what
	// the row carried.
	var out []string
	for _, tok := range strings.Fields(s) {
		if bareNumRe.MatchString(tok) {
			break
		}
		out = append(out, tok)
	}
	return strings.Join(out, " "), ""
}
