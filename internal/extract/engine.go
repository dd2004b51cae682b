package extract

import (
	"fmt"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// Evidence map keys. The no-value markers keep an audit trail even for
// fields that stayed empty.
const (
	fieldTitle          = "title"
	fieldPriceJPY       = "price_jpy"
	fieldNonJPYPrice    = "non_jpy_price"
	fieldUsageValidity  = "usage_validity"
	fieldActValidity    = "activation_validity"
	fieldDataAmount     = "data_amount"
	fieldNetworkType    = "network_type"
	fieldCarrierSupport = "carrier_support_kr"

	markerNoJPYPrice       = "no_jpy_price_found_in_primary_selectors"
	markerNoNetworkKeyword = "no_local_or_roaming_keyword_matched"
)

// Engine composes the five resolvers over one listing's ordered text blocks
// and price candidates, and assembles the final ProductRecord with a merged
// per-field evidence map.
type Engine struct {
	price    *PriceResolver
	validity *ValiditySplitResolver
	data     *DataAmountResolver
	network  *NetworkTypeResolver
	carrier  *CarrierSupportResolver
}

// NewEngine creates an extraction engine with the default resolvers.
func NewEngine() *Engine {
	return &Engine{
		price:    NewPriceResolver(),
		validity: NewValiditySplitResolver(),
		data:     NewDataAmountResolver(),
		network:  NewNetworkTypeResolver(),
		carrier:  NewCarrierSupportResolver(),
	}
}

// Extract resolves every field from the raw listing. The record is complete
// once returned; nothing mutates it afterwards.
func (e *Engine) Extract(target model.CrawlTarget, raw *model.RawListing) model.ProductRecord {
	evidence := make(map[string][]string)

	price, nonJPY := e.price.Resolve(raw.PriceCandidates)
	switch {
	case len(price.Evidence) > 0:
		evidence[fieldPriceJPY] = price.Evidence
	case target.SearchPriceJPY != nil:
		// Low-confidence hint from the search result card.
		price.Value = target.SearchPriceJPY
		hint := target.SearchPriceText
		if hint == "" {
			hint = fmt.Sprintf("%d", *target.SearchPriceJPY)
		}
		evidence[fieldPriceJPY] = []string{"search_result_fallback: " + hint}
	default:
		evidence[fieldPriceJPY] = []string{markerNoJPYPrice}
	}
	if len(nonJPY) > 0 {
		evidence[fieldNonJPYPrice] = nonJPY
	}

	// The title gets positional priority in the validity heuristics.
	validityTexts := raw.TextBlocks
	if raw.Title != "" {
		validityTexts = append([]string{raw.Title}, raw.TextBlocks...)
	}
	split := e.validity.Resolve(validityTexts)
	if len(split.UsageEvidence) > 0 {
		evidence[fieldUsageValidity] = split.UsageEvidence
	}
	if len(split.ActivationEvidence) > 0 {
		evidence[fieldActValidity] = split.ActivationEvidence
	}

	dataAmount := e.data.Resolve(raw.TextBlocks)
	if len(dataAmount.Evidence) > 0 {
		evidence[fieldDataAmount] = dataAmount.Evidence
	}

	networkType, networkEvidence := e.network.Resolve(raw.TextBlocks)
	if len(networkEvidence) > 0 {
		evidence[fieldNetworkType] = networkEvidence
	} else {
		evidence[fieldNetworkType] = []string{markerNoNetworkKeyword}
	}

	carrierSupport, carrierEvidence := e.carrier.Resolve(raw.TextBlocks)
	if len(carrierEvidence) > 0 {
		evidence[fieldCarrierSupport] = carrierEvidence
	}

	if raw.Title != "" {
		evidence[fieldTitle] = append(evidence[fieldTitle], raw.Title)
	}

	externalID := target.ExternalID
	if externalID == "" {
		externalID = raw.ExternalID
	}

	validity := split.Usage
	if validity == "" {
		validity = split.Activation
	}

	return model.ProductRecord{
		Title:              raw.Title,
		PriceJPY:           price.Value,
		Validity:           validity,
		UsageValidity:      split.Usage,
		ActivationValidity: split.Activation,
		NetworkType:        networkType,
		CarrierSupport:     carrierSupport,
		DataAmount:         dataAmount.Value,
		ProductURL:         target.ProductURL,
		ExternalID:         externalID,
		Seller:             raw.Seller,
		Brand:              raw.Brand,
		Evidence:           evidence,
	}
}
