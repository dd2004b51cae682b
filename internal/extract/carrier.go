package extract

import (
	"strings"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// CarrierSupportResolver detects support for the three Korean carriers.
// Only blocks that mention Korea by native or English spelling qualify;
// carrier names are common enough letter pairs that an ungated scan would
// drown in false positives.
type CarrierSupportResolver struct{}

// NewCarrierSupportResolver creates a carrier support resolver.
func NewCarrierSupportResolver() *CarrierSupportResolver {
	return &CarrierSupportResolver{}
}

// Resolve toggles one flag per carrier on keyword hits within qualifying
// blocks. KT needs a word-boundary match so it does not fire inside SKT or
// KTX. A qualifying block also contributes evidence when it carries a
// supported-carriers phrase without naming one directly.
func (r *CarrierSupportResolver) Resolve(blocks []string) (model.CarrierSupportKR, []string) {
	var support model.CarrierSupportKR
	var evidence []string

	for _, raw := range blocks {
		text := NormalizeText(raw)
		lower := strings.ToLower(text)
		if !strings.Contains(text, "韓国") && !strings.Contains(lower, "korea") {
			continue
		}

		matched := false
		if strings.Contains(lower, "skt") {
			support.SKT = boolPtr(true)
			matched = true
		}
		if ktWordPattern.MatchString(lower) {
			support.KT = boolPtr(true)
			matched = true
		}
		if containsAny(lower, lguKeywords) {
			support.LGU = boolPtr(true)
			matched = true
		}

		if matched || strings.Contains(text, "対応キャリア") || strings.Contains(text, "사용 가능") {
			evidence = append(evidence, snippet(text))
		}
	}

	return support, evidence
}

func boolPtr(b bool) *bool { return &b }
