package extract

import (
	"strings"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// NetworkTypeResolver classifies a listing as local-line or roaming by first
// keyword hit. Local keywords are tested first, so a block mentioning both
// reads as local.
type NetworkTypeResolver struct{}

// NewNetworkTypeResolver creates a network type resolver.
func NewNetworkTypeResolver() *NetworkTypeResolver {
	return &NetworkTypeResolver{}
}

// Resolve returns the classification and the matching snippet. An unknown
// result carries no evidence; the engine records the explicit no-match
// marker instead.
func (r *NetworkTypeResolver) Resolve(blocks []string) (model.NetworkType, []string) {
	for _, raw := range blocks {
		text := NormalizeText(raw)
		lower := strings.ToLower(text)
		if containsAny(lower, localNetworkKeywords) {
			return model.NetworkLocal, []string{snippet(text)}
		}
		if containsAny(lower, roamingNetworkKeywords) {
			return model.NetworkRoaming, []string{snippet(text)}
		}
	}
	return model.NetworkUnknown, nil
}

func containsAny(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
