package match

import (
	"sort"
)

// Suggestion defaults.
const (
	// DefaultMinScore is the lowest similarity offered as a suggestion.
	DefaultMinScore = 0.6
	// DefaultMaxSuggestions caps the suggestions attached to an error.
	DefaultMaxSuggestions = 3
)

// Candidate is a known name scored against an unknown one.
type Candidate struct {
	Name       string
	Normalized string
	Score      float64
}

// CandidateList is sorted by descending score, then by name.
type CandidateList []Candidate

// RankCandidates scores every known name against target.
func RankCandidates(target string, known []string) CandidateList {
	candidates := make(CandidateList, 0, len(known))

	for _, name := range known {
		candidates = append(candidates, Candidate{
			Name:       name,
			Normalized: NormalizeIdent(name),
			Score:      NormalizedSimilarity(target, name),
		})
	}

	sort.Sort(candidates)

	return candidates
}

// Suggest returns up to DefaultMaxSuggestions known names that are close to target.
func Suggest(target string, known []string) []string {
	ranked := RankCandidates(target, known).AboveThreshold(DefaultMinScore).Top(DefaultMaxSuggestions)

	names := make([]string, len(ranked))
	for i, c := range ranked {
		names[i] = c.Name
	}

	return names
}

// Len implements sort.Interface.
func (c CandidateList) Len() int { return len(c) }

// Swap implements sort.Interface.
func (c CandidateList) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

// Less implements sort.Interface.
func (c CandidateList) Less(i, j int) bool {
	if c[i].Score != c[j].Score {
		return c[i].Score > c[j].Score
	}

	return c[i].Name < c[j].Name
}

// Top returns the first n candidates.
func (c CandidateList) Top(n int) CandidateList {
	if n >= len(c) {
		return c
	}

	return c[:n]
}

// Best returns the highest scored candidate, or nil.
func (c CandidateList) Best() *Candidate {
	if len(c) == 0 {
		return nil
	}

	return &c[0]
}

// AboveThreshold keeps candidates scoring at least threshold.
func (c CandidateList) AboveThreshold(threshold float64) CandidateList {
	var result CandidateList

	for _, cand := range c {
		if cand.Score >= threshold {
			result = append(result, cand)
		}
	}

	return result
}

// IsAmbiguous reports whether the two best candidates are within threshold of each other.
func (c CandidateList) IsAmbiguous(threshold float64) bool {
	if len(c) < 2 {
		return false
	}

	return c[0].Score-c[1].Score < threshold
}
