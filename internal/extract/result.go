package extract

// Extraction is a resolved string field plus the snippets that justify it.
// An empty Value means the field stayed unresolved; Evidence is append-only
// and a resolved value is never overwritten by a later pass.
type Extraction struct {
	Value    string
	Evidence []string
}

// Found reports whether the field resolved to a value.
func (e Extraction) Found() bool { return e.Value != "" }

// PriceExtraction is the JPY price field. Value stays nil when no candidate
// satisfied the currency rules.
type PriceExtraction struct {
	Value    *int
	Evidence []string
}

// ValiditySplit holds the two competing day-count fields with separate
// evidence trails.
type ValiditySplit struct {
	Usage              string
	Activation         string
	UsageEvidence      []string
	ActivationEvidence []string
}
