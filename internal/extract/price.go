package extract

import (
	"strconv"
	"strings"
)

// Currency classifies the marker found in a price candidate string.
type Currency string

const (
	CurrencyJPY     Currency = "JPY"
	CurrencyKRW     Currency = "KRW"
	CurrencyUSD     Currency = "USD"
	CurrencyEUR     Currency = "EUR"
	CurrencyUnknown Currency = ""
)

// ParsePrice extracts the first contiguous digit group from a candidate and
// classifies its currency marker. Marker priority is KRW > USD > EUR > JPY;
// a candidate with no marker at all reports CurrencyUnknown. ok is false
// when no amount is present.
func ParsePrice(text string) (amount int, currency Currency, ok bool) {
	normalized := NormalizeText(text)
	match := amountPattern.FindString(normalized)
	if match == "" {
		return 0, CurrencyUnknown, false
	}

	amount, err := strconv.Atoi(strings.ReplaceAll(match, ",", ""))
	if err != nil {
		return 0, CurrencyUnknown, false
	}

	upper := strings.ToUpper(normalized)
	switch {
	case strings.Contains(upper, "KRW"):
		return amount, CurrencyKRW, true
	case strings.Contains(upper, "USD"):
		return amount, CurrencyUSD, true
	case strings.Contains(upper, "EUR"):
		return amount, CurrencyEUR, true
	case strings.Contains(upper, "JPY"),
		strings.Contains(normalized, "￥"),
		strings.Contains(normalized, "¥"):
		return amount, CurrencyJPY, true
	}
	return amount, CurrencyUnknown, true
}

// PriceResolver picks a JPY amount from ordered price candidates.
// Candidates bearing a foreign currency marker never satisfy the field; they
// accumulate as side evidence instead. When AssumeJPY is set, the first
// candidate with no marker at all is accepted as JPY, which matches a
// storefront whose i18n preference pins prices to yen.
type PriceResolver struct {
	AssumeJPY bool
}

// NewPriceResolver returns a resolver with the storefront JPY assumption on.
func NewPriceResolver() *PriceResolver {
	return &PriceResolver{AssumeJPY: true}
}

// Resolve scans candidates in order. The first unambiguous JPY candidate
// wins immediately. The second return value lists rejected non-JPY snippets.
func (r *PriceResolver) Resolve(candidates []string) (PriceExtraction, []string) {
	var nonJPY []string
	for _, raw := range candidates {
		text := NormalizeText(raw)
		amount, currency, ok := ParsePrice(text)
		if !ok {
			continue
		}
		switch currency {
		case CurrencyJPY:
			return PriceExtraction{Value: &amount, Evidence: []string{snippet(text)}}, nonJPY
		case CurrencyKRW, CurrencyUSD, CurrencyEUR:
			nonJPY = append(nonJPY, snippet(text))
			continue
		}
		if r.AssumeJPY {
			ev := truncateRunes(text, 150) + " (assumed JPY by i18n-prefs)"
			return PriceExtraction{Value: &amount, Evidence: []string{ev}}, nonJPY
		}
	}
	return PriceExtraction{}, nonJPY
}

// ResolveJPYMarked is the strict variant: only candidates carrying an
// explicit yen marker are considered.
func ResolveJPYMarked(candidates []string) PriceExtraction {
	for _, raw := range candidates {
		text := NormalizeText(raw)
		m := jpyPricePattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		amount, err := strconv.Atoi(strings.ReplaceAll(m[1], ",", ""))
		if err != nil {
			continue
		}
		return PriceExtraction{Value: &amount, Evidence: []string{snippet(text)}}
	}
	return PriceExtraction{}
}
