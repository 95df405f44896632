package scoring

// fuzzyMatch reports whether target equals any candidate or is similar
// enough to one (ratio > 0.80). Both sides are expected lowercase.
func fuzzyMatch(target string, candidates []string) bool {
	for _, candidate := range candidates {
		if target == candidate {
			return true
		}
		if similarityRatio(target, candidate) > 0.8 {
			return true
		}
	}
	return false
}

// similarityRatio is an edit-distance based similarity in [0, 1]: 1 minus
// twice the edit distance over the combined length of both strings.
func similarityRatio(a, b string) float64 {
	if a == b {
		return 1.0
	}
	total := len(a) + len(b)
	if total == 0 {
		return 1.0
	}
	ratio := 1.0 - float64(2*levenshtein(a, b))/float64(total)
	if ratio < 0 {
		return 0
	}
	return ratio
}

func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(rb)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
