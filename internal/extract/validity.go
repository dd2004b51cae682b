package extract

import (
	"strconv"
	"strings"
)

// ValiditySplitResolver separates usage validity (days the plan may be used)
// from activation validity (days after receipt within which it must be
// activated). Listings mention both as bare day counts in unlabeled free
// text, so assignment runs on a fixed precedence of contextual heuristics.
// The precedence order is deliberate and load-bearing; see the package tests
// before reordering anything.
type ValiditySplitResolver struct{}

// NewValiditySplitResolver creates a validity split resolver.
func NewValiditySplitResolver() *ValiditySplitResolver {
	return &ValiditySplitResolver{}
}

// Resolve scans blocks in input order and stops once both fields are
// filled. Day values canonicalize to "<N>일".
//
// Per block, with dayHits = every "N日間"/"N日" match:
//  1. title block, usage unset: first hit is usage; with activation context
//     and a second hit, the last hit is activation
//  2. usage+activation context and two or more hits: first/last split
//  3. activation context alone with two or more hits: same split
//  4. activation context with a single hit: it is the activation deadline
//  5. otherwise a plan-signal block without noise words fills usage
//
// Independently, a data-exhausted phrase satisfies usage, and a labeled
// "有効期限:"/"利用期間:" tail fills whichever side its label names — but
// only when the captured tail itself reduces to a day count or a known
// phrase. After the scan, numerically inverted fields are swapped: an
// activation window is never shorter than the usable duration.
func (r *ValiditySplitResolver) Resolve(blocks []string) ValiditySplit {
	var split ValiditySplit

	for idx, raw := range blocks {
		text := NormalizeText(raw)
		lower := strings.ToLower(text)

		dayHits := dayMatches(text)
		hasUsageContext := containsAny(lower, usageKeywords)
		hasActivationContext := containsAny(lower, activationKeywords)
		hasNoiseContext := containsAny(lower, noiseKeywords)
		hasPlanSignal := strings.Contains(text, "日間") ||
			strings.Contains(text, "時間") ||
			strings.Contains(text, "プラン") ||
			strings.Contains(text, "無制限") ||
			gbSignalPattern.MatchString(text)

		if len(dayHits) > 0 {
			switch {
			// Title is usually the strongest signal for actual usage duration.
			case idx == 0 && !hasUsage(&split):
				setUsage(&split, dayHits[0], text)
				if hasActivationContext && len(dayHits) >= 2 && !hasActivation(&split) {
					setActivation(&split, dayHits[len(dayHits)-1], text)
				}
			case hasUsageContext && hasActivationContext && len(dayHits) >= 2:
				if !hasUsage(&split) {
					setUsage(&split, dayHits[0], text)
				}
				if !hasActivation(&split) {
					setActivation(&split, dayHits[len(dayHits)-1], text)
				}
			case hasActivationContext && len(dayHits) >= 2:
				if !hasUsage(&split) {
					setUsage(&split, dayHits[0], text)
				}
				if !hasActivation(&split) {
					setActivation(&split, dayHits[len(dayHits)-1], text)
				}
			case hasActivationContext && !hasActivation(&split):
				setActivation(&split, dayHits[0], text)
			case !hasUsage(&split) && hasPlanSignal && !hasNoiseContext:
				setUsage(&split, dayHits[0], text)
			}
		}

		if !hasUsage(&split) {
			if m := dataExhaustPattern.FindStringSubmatch(text); m != nil {
				split.Usage = m[1]
				split.UsageEvidence = append(split.UsageEvidence, snippet(text))
			}
		}

		if (!hasUsage(&split) || !hasActivation(&split)) &&
			(strings.Contains(text, "有効期限") || strings.Contains(text, "利用期間")) {
			if m := validityLabelPattern.FindStringSubmatch(text); m != nil {
				captured := normalizeLabeledValidity(strings.TrimSpace(m[1]))
				if captured == "" {
					continue
				}
				if strings.Contains(text, "有効期限") {
					if !hasActivation(&split) {
						split.Activation = captured
						split.ActivationEvidence = append(split.ActivationEvidence, snippet(text))
					}
				} else if !hasUsage(&split) {
					split.Usage = captured
					split.UsageEvidence = append(split.UsageEvidence, snippet(text))
				}
			}
		}

		if hasUsage(&split) && hasActivation(&split) {
			break
		}
	}

	// Swap correction for heuristic misclassification: when both sides hold
	// numeric day values, activation must not be the smaller one.
	usageDays := koreanDays(split.Usage)
	activationDays := koreanDays(split.Activation)
	if usageDays != nil && activationDays != nil && *activationDays < *usageDays {
		split.Usage, split.Activation = split.Activation, split.Usage
		split.UsageEvidence, split.ActivationEvidence = split.ActivationEvidence, split.UsageEvidence
	}

	return split
}

// ResolveSingle collapses the split into one generic validity value,
// preferring usage.
func (r *ValiditySplitResolver) ResolveSingle(blocks []string) Extraction {
	split := r.Resolve(blocks)
	if split.Usage != "" {
		return Extraction{Value: split.Usage, Evidence: split.UsageEvidence}
	}
	if split.Activation != "" {
		return Extraction{Value: split.Activation, Evidence: split.ActivationEvidence}
	}
	return Extraction{}
}

func dayMatches(text string) []string {
	var hits []string
	for _, m := range dayCountPattern.FindAllStringSubmatch(text, -1) {
		hits = append(hits, m[1])
	}
	return hits
}

func hasUsage(s *ValiditySplit) bool      { return s.Usage != "" }
func hasActivation(s *ValiditySplit) bool { return s.Activation != "" }

func setUsage(s *ValiditySplit, days, text string) {
	s.Usage = days + "일"
	s.UsageEvidence = append(s.UsageEvidence, snippet(text))
}

func setActivation(s *ValiditySplit, days, text string) {
	s.Activation = days + "일"
	s.ActivationEvidence = append(s.ActivationEvidence, snippet(text))
}

// normalizeLabeledValidity reduces a captured label tail to a canonical day
// count or exhausted-data phrase. A tail with neither resolves to nothing;
// labels like "有効期限のカウントが始まります" carry no extractable value.
func normalizeLabeledValidity(value string) string {
	text := NormalizeText(value)
	if m := labeledDayPattern.FindStringSubmatch(text); m != nil {
		return m[1] + "일"
	}
	if labeledExhaustPattern.MatchString(text) {
		return "GB使い切り"
	}
	return ""
}

// koreanDays parses a canonical "<N>일" value back to a number. Non-numeric
// values (exhausted-data phrases) return nil.
func koreanDays(value string) *int {
	if value == "" {
		return nil
	}
	m := koreanDayPattern.FindStringSubmatch(value)
	if m == nil {
		return nil
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return nil
	}
	return &n
}
