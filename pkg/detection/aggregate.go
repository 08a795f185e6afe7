package detection

import "chatsafety-server/pkg/lexicon"

// DetectionResult is the reduced outcome of one detection call
type DetectionResult struct {
	Flags      []lexicon.Category `json:"flags"`
	Confidence float64            `json:"confidence"`
	Matches    []KeywordMatch     `json:"matches"`
}

// HasFlags reports whether any category fired
func (r DetectionResult) HasFlags() bool {
	return len(r.Flags) > 0
}

// Aggregate reduces raw matches into a deduplicated category set and a single
// confidence score. Confidence is the maximum severity across matches,
// normalized to [0,1]; empty input yields the zero result. Pure function.
func Aggregate(matches []KeywordMatch) DetectionResult {
	if len(matches) == 0 {
		return DetectionResult{}
	}

	seen := make(map[lexicon.Category]bool, len(matches))
	flags := make([]lexicon.Category, 0, len(matches))
	maxSeverity := 0

	for _, m := range matches {
		if !seen[m.Category] {
			seen[m.Category] = true
			flags = append(flags, m.Category)
		}
		if m.Severity > maxSeverity {
			maxSeverity = m.Severity
		}
	}

	confidence := float64(maxSeverity) / 100
	if confidence > 1 {
		confidence = 1
	}

	return DetectionResult{
		Flags:      flags,
		Confidence: confidence,
		Matches:    matches,
	}
}
