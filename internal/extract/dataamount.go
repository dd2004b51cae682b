package extract

import "strings"

// DataAmountResolver normalizes data-allowance phrases. The first block
// matching a numeric GB figure or an unlimited synonym wins.
type DataAmountResolver struct{}

// NewDataAmountResolver creates a data amount resolver.
func NewDataAmountResolver() *DataAmountResolver {
	return &DataAmountResolver{}
}

// Resolve scans blocks in order for the first data-amount mention.
func (r *DataAmountResolver) Resolve(blocks []string) Extraction {
	for _, raw := range blocks {
		text := NormalizeText(raw)
		match := dataAmountPattern.FindString(text)
		if match == "" {
			continue
		}
		return Extraction{
			Value:    canonicalDataAmount(match),
			Evidence: []string{snippet(text)},
		}
	}
	return Extraction{}
}

// canonicalDataAmount maps unlimited synonyms to the literal "unlimited"
// token and numeric matches to "<N>GB". Anything else passes through raw.
func canonicalDataAmount(raw string) string {
	lower := strings.ToLower(raw)
	if strings.Contains(raw, "無制限") || strings.Contains(raw, "使い放題") || strings.Contains(lower, "unlimited") {
		return "unlimited"
	}
	if m := gbNumberPattern.FindStringSubmatch(lower); m != nil {
		return m[1] + "GB"
	}
	return raw
}
