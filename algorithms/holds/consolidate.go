package holds

// Consolidate performs a single left-to-right sweep over chronologically
// ordered hold candidates (in whole-recording sample coordinates): a
// candidate starting less than minGap samples after the current one extends
// it, otherwise the current one is flushed. Every flush, including the final
// one, applies the minDur duration test, so the output holds all last at
// least minDur samples and consecutive holds are at least minGap apart.
func Consolidate(cands []Candidate, minGap, minDur float64) []Candidate {
	var out []Candidate

	have := false
	var cur Candidate

	flush := func() {
		if float64(cur.Duration()) >= minDur {
			out = append(out, cur)
		}
	}

	for _, c := range cands {
		switch {
		case !have:
			cur = c
			have = true
		case float64(c.Start-cur.End) < minGap:
			cur.End = c.End
		default:
			flush()
			cur = c
		}
	}
	if have {
		flush()
	}

	return out
}
