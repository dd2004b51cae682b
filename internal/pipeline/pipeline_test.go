package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

// fakeAdapter returns scripted search results and raw listings.
type fakeAdapter struct {
	targets []model.CrawlTarget
	raw     *model.RawListing
	rawErr  error
	closed  bool
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Search(ctx context.Context, query string, limit int) ([]model.CrawlTarget, error) {
	if limit < len(f.targets) {
		return f.targets[:limit], nil
	}
	return f.targets, nil
}

func (f *fakeAdapter) FetchRaw(ctx context.Context, target model.CrawlTarget) (*model.RawListing, error) {
	if f.rawErr != nil {
		return nil, f.rawErr
	}
	return f.raw, nil
}

func (f *fakeAdapter) Close() error {
	f.closed = true
	return nil
}

func TestFetchDetailExtractsRecord(t *testing.T) {
	adapter := &fakeAdapter{
		raw: &model.RawListing{
			Title:           "日本 eSIM 3GB 30日間",
			ExternalID:      "B0ESIMJP01",
			TextBlocks:      []string{"データ容量: 3GB", "利用期間: 開通から30日間有効", "現地回線 ドコモネットワーク利用"},
			PriceCandidates: []string{"￥2,480"},
		},
	}
	p := NewPipeline(adapter, nil)

	target := model.CrawlTarget{
		ProductURL: "https://www.amazon.co.jp/dp/B0ESIMJP01",
		ExternalID: "B0ESIMJP01",
	}
	record, err := p.FetchDetail(context.Background(), target)
	if err != nil {
		t.Fatalf("FetchDetail: %v", err)
	}

	if record.PriceJPY == nil || *record.PriceJPY != 2480 {
		t.Errorf("price = %v, want 2480", record.PriceJPY)
	}
	if record.DataAmount != "3GB" {
		t.Errorf("data amount = %q, want 3GB", record.DataAmount)
	}
	if record.NetworkType != model.NetworkLocal {
		t.Errorf("network type = %q, want local", record.NetworkType)
	}
	if record.ExternalID != "B0ESIMJP01" {
		t.Errorf("external id = %q", record.ExternalID)
	}
}

func TestFetchDetailWrapsAdapterFailure(t *testing.T) {
	adapter := &fakeAdapter{
		rawErr: &model.FetchError{
			URL:          "https://www.amazon.co.jp/dp/B0FAIL",
			ArtifactPath: "out/screenshots/detail_error_B0FAIL.html",
			Err:          errors.New("no recognizable listing content"),
		},
	}
	p := NewPipeline(adapter, nil)

	_, err := p.FetchDetail(context.Background(), model.CrawlTarget{
		ProductURL: "https://www.amazon.co.jp/dp/B0FAIL",
	})
	if err == nil {
		t.Fatal("expected error")
	}

	var extractErr *model.ExtractionError
	if !errors.As(err, &extractErr) {
		t.Fatalf("error type = %T, want *model.ExtractionError", err)
	}
	if extractErr.ArtifactPath != "out/screenshots/detail_error_B0FAIL.html" {
		t.Errorf("artifact path = %q, not carried through", extractErr.ArtifactPath)
	}

	var fetchErr *model.FetchError
	if !errors.As(err, &fetchErr) {
		t.Error("underlying fetch error lost")
	}
}

func TestCloseDelegates(t *testing.T) {
	adapter := &fakeAdapter{}
	p := NewPipeline(adapter, nil)
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !adapter.closed {
		t.Error("adapter not closed")
	}
}
