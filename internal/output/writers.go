package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// utf8BOM makes the CSV open cleanly in spreadsheet tools that otherwise
// guess a legacy encoding for Japanese text.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// csvHeader is the flat tabular shape of a ProductRecord. Nested fields are
// embedded as JSON text.
var csvHeader = []string{
	"title",
	"price_jpy",
	"validity",
	"usage_validity",
	"activation_validity",
	"network_type",
	"carrier_support_kr",
	"data_amount",
	"product_url",
	"external_id",
	"seller",
	"brand",
	"evidence",
}

// WriteJSONL writes one ProductRecord per line.
func WriteJSONL(path string, items []model.ProductRecord) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return fmt.Errorf("encode record: %w", err)
		}
	}
	return f.Close()
}

// WriteCSV writes the flat tabular form with a UTF-8 byte-order mark.
func WriteCSV(path string, items []model.ProductRecord) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	if _, err := f.Write(utf8BOM); err != nil {
		return fmt.Errorf("write BOM: %w", err)
	}

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, item := range items {
		row, err := csvRow(item)
		if err != nil {
			return err
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return f.Close()
}

// WriteFailedJSONL writes one CrawlError per line.
func WriteFailedJSONL(path string, failures []model.CrawlError) error {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	for _, failure := range failures {
		if err := enc.Encode(failure); err != nil {
			return fmt.Errorf("encode failure: %w", err)
		}
	}
	return f.Close()
}

func csvRow(item model.ProductRecord) ([]string, error) {
	carrier, err := json.Marshal(item.CarrierSupport)
	if err != nil {
		return nil, fmt.Errorf("marshal carrier support: %w", err)
	}
	evidence, err := json.Marshal(item.Evidence)
	if err != nil {
		return nil, fmt.Errorf("marshal evidence: %w", err)
	}

	price := ""
	if item.PriceJPY != nil {
		price = strconv.Itoa(*item.PriceJPY)
	}

	return []string{
		item.Title,
		price,
		item.Validity,
		item.UsageValidity,
		item.ActivationValidity,
		string(item.NetworkType),
		string(carrier),
		item.DataAmount,
		item.ProductURL,
		item.ExternalID,
		item.Seller,
		item.Brand,
		string(evidence),
	}, nil
}

func createFile(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", path, err)
	}
	return f, nil
}
