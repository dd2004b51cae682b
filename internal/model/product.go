package model

// NetworkType classifies how a plan connects in the destination country
type NetworkType string

const (
	NetworkLocal   NetworkType = "local"   // Plan rides a local carrier line
	NetworkRoaming NetworkType = "roaming" // Plan roams on an international agreement
	NetworkUnknown NetworkType = "unknown" // No keyword matched
)

// CarrierSupportKR records per-carrier support for the three Korean carriers.
// A nil flag means the listing never mentioned the carrier.
type CarrierSupportKR struct {
	SKT *bool `json:"skt"`
	KT  *bool `json:"kt"`
	LGU *bool `json:"lgu"`
}

// CrawlTarget identifies one listing discovered by search. The search price
// is a low-confidence hint usable as a fallback when the detail page yields
// no JPY price.
type CrawlTarget struct {
	ProductURL      string `json:"product_url"`
	ExternalID      string `json:"external_id,omitempty"`
	SearchPriceJPY  *int   `json:"search_price_jpy,omitempty"`
	SearchPriceText string `json:"search_price_text,omitempty"`
}

// RawListing is what the marketplace adapter reduces a detail page to before
// the extraction engine runs. TextBlocks are ordered; the engine treats the
// title as the highest-priority block.
type RawListing struct {
	Title           string
	Seller          string
	Brand           string
	ExternalID      string
	TextBlocks      []string
	PriceCandidates []string
}

// ProductRecord is the typed result of extracting one listing. Evidence maps
// each resolved field name to the raw text snippets that justified its value.
// Records are never mutated after assembly.
type ProductRecord struct {
	Title              string              `json:"title,omitempty"`
	PriceJPY           *int                `json:"price_jpy"`
	Validity           string              `json:"validity,omitempty"`
	UsageValidity      string              `json:"usage_validity,omitempty"`
	ActivationValidity string              `json:"activation_validity,omitempty"`
	NetworkType        NetworkType         `json:"network_type"`
	CarrierSupport     CarrierSupportKR    `json:"carrier_support_kr"`
	DataAmount         string              `json:"data_amount,omitempty"`
	ProductURL         string              `json:"product_url"`
	ExternalID         string              `json:"external_id,omitempty"`
	Seller             string              `json:"seller,omitempty"`
	Brand              string              `json:"brand,omitempty"`
	Evidence           map[string][]string `json:"evidence"`
}

// CrawlError is the terminal failure outcome for one target.
type CrawlError struct {
	ProductURL   string `json:"product_url"`
	ExternalID   string `json:"external_id,omitempty"`
	ErrorKind    string `json:"error_kind"`
	ErrorMessage string `json:"error_message"`
	ArtifactPath string `json:"artifact_path,omitempty"`
}

// CrawlBatchResult aggregates one batch. Every target lands in exactly one
// of the two collections.
type CrawlBatchResult struct {
	Items    []ProductRecord `json:"items"`
	Failures []CrawlError    `json:"failures"`
}
