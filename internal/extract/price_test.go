package extract

import (
	"strings"
	"testing"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		amount   int
		currency Currency
		ok       bool
	}{
		{"yen glyph with commas", "今だけ ￥1,980 税込", 1980, CurrencyJPY, true},
		{"half-width yen", "¥2,480", 2480, CurrencyJPY, true},
		{"jpy word", "JPY 12,800", 12800, CurrencyJPY, true},
		{"krw marker", "KRW14,210", 14210, CurrencyKRW, true},
		{"usd marker", "USD 19,99", 1999, CurrencyUSD, true},
		{"eur marker", "EUR 15,00", 1500, CurrencyEUR, true},
		{"no marker", "1,200", 1200, CurrencyUnknown, true},
		{"no amount", "price unavailable", 0, CurrencyUnknown, false},
		{"krw beats yen glyph", "KRW14,210 (￥1,580)", 14210, CurrencyKRW, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount, currency, ok := ParsePrice(tt.text)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if amount != tt.amount {
				t.Errorf("amount = %d, want %d", amount, tt.amount)
			}
			if currency != tt.currency {
				t.Errorf("currency = %q, want %q", currency, tt.currency)
			}
		})
	}
}

func TestPriceResolver_JPYWins(t *testing.T) {
	r := NewPriceResolver()
	res, nonJPY := r.Resolve([]string{"KRW14,210", "￥1,980"})

	if res.Value == nil || *res.Value != 1980 {
		t.Fatalf("value = %v, want 1980", res.Value)
	}
	if len(res.Evidence) != 1 {
		t.Errorf("expected one evidence snippet, got %d", len(res.Evidence))
	}
	if len(nonJPY) != 1 {
		t.Errorf("expected KRW candidate in non-JPY evidence, got %v", nonJPY)
	}
}

func TestPriceResolver_OnlyKRWIsNotAccepted(t *testing.T) {
	r := NewPriceResolver()
	res, nonJPY := r.Resolve([]string{"KRW14,210"})

	if res.Value != nil {
		t.Errorf("KRW candidate must not satisfy the JPY field, got %d", *res.Value)
	}
	if len(nonJPY) == 0 {
		t.Error("expected KRW text in non-JPY evidence")
	}
}

func TestPriceResolver_AssumedJPY(t *testing.T) {
	r := NewPriceResolver()
	res, _ := r.Resolve([]string{"1,200"})

	if res.Value == nil || *res.Value != 1200 {
		t.Fatalf("value = %v, want 1200", res.Value)
	}
	if len(res.Evidence) != 1 || !strings.Contains(res.Evidence[0], "assumed JPY") {
		t.Errorf("expected assumed-JPY tag in evidence, got %v", res.Evidence)
	}
}

func TestPriceResolver_StrictRejectsUnmarked(t *testing.T) {
	r := &PriceResolver{AssumeJPY: false}
	res, _ := r.Resolve([]string{"1,200"})

	if res.Value != nil {
		t.Errorf("unmarked candidate must not resolve without the assumption, got %d", *res.Value)
	}
}

func TestResolveJPYMarked(t *testing.T) {
	res := ResolveJPYMarked([]string{"参考価格 1,200", "今だけ ￥1,980 税込"})
	if res.Value == nil || *res.Value != 1980 {
		t.Fatalf("value = %v, want 1980", res.Value)
	}
}
