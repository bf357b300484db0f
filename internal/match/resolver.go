package match

// DefaultCutoff is the minimum similarity ratio for a query to resolve.
const DefaultCutoff = 0.5

// Resolver matches free-text queries against a fixed set of titles.
type Resolver struct {
	titles     []string
	normalized []string
	cutoff     float64
}

// NewResolver builds a resolver over the given titles. A cutoff outside
// (0, 1] falls back to DefaultCutoff.
func NewResolver(titles []string, cutoff float64) *Resolver {
	if cutoff <= 0 || cutoff > 1 {
		cutoff = DefaultCutoff
	}
	normalized := make([]string, len(titles))
	for i, title := range titles {
		normalized[i] = Normalize(title)
	}
	return &Resolver{
		titles:     append([]string{}, titles...),
		normalized: normalized,
		cutoff:     cutoff,
	}
}

// Resolve returns the closest known title for the query, or ok=false when no
// candidate scores at or above the cutoff. Ties break to the earlier catalog
// index so results are stable across runs.
func (r *Resolver) Resolve(query string) (string, bool) {
	q := Normalize(query)
	if q == "" {
		return "", false
	}

	bestIdx := -1
	bestScore := 0.0
	for i, candidate := range r.normalized {
		score := Ratio(q, candidate)
		if score > bestScore {
			bestIdx = i
			bestScore = score
		}
	}
	if bestIdx < 0 || bestScore < r.cutoff {
		return "", false
	}
	return r.titles[bestIdx], true
}

// Ratio computes a similarity ratio in [0, 1] between two normalized
// strings: 1 minus the edit distance over the longer length.
func Ratio(a, b string) float64 {
	if a == b {
		if a == "" {
			return 0
		}
		return 1
	}
	la, lb := len(a), len(b)
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 0
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance with a single-row DP over bytes.
// Inputs are already normalized, so byte comparison is sufficient in
// practice for catalog titles.
func levenshtein(a, b string) int {
	la, lb := len(a), len(b)
	if la == 0 {
		return lb
	}
	if lb == 0 {
		return la
	}

	prev := make([]int, lb+1)
	curr := make([]int, lb+1)
	for j := 0; j <= lb; j++ {
		prev[j] = j
	}
	for i := 1; i <= la; i++ {
		curr[0] = i
		for j := 1; j <= lb; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(curr[j-1]+1, prev[j]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[lb]
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
