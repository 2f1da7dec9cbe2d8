package results

// Dedupe groups candidates by deduplication key and keeps exactly one per
// group: the one with the minimum time. When two candidates tie on time the
// earliest in input order wins, which only affects provenance fields. Output
// preserves the input order of each group's first occurrence, so processing
// stays deterministic.
func Dedupe(in []Result) []Result {
	if len(in) <= 1 {
		return in
	}

	index := make(map[Key]int, len(in))
	out := make([]Result, 0, len(in))

	for _, r := range in {
		k := r.DedupeKey()
		i, seen := index[k]
		if !seen {
			index[k] = len(out)
			out = append(out, r)
			continue
		}
		// Strictly lower replaces; an equal time keeps the earlier candidate.
		if r.Time < out[i].Time {
			out[i] = r
		}
	}

	return out
}
