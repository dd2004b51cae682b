package extract

import (
	"testing"

	"github.com/tyler-bit-ai/eSIMPriceJapan/internal/model"
)

func TestNetworkTypeResolver(t *testing.T) {
	tests := []struct {
		name         string
		blocks       []string
		want         model.NetworkType
		wantEvidence bool
	}{
		{"roaming keyword", []string{"国際ローミング対応 eSIM"}, model.NetworkRoaming, true},
		{"local keyword", []string{"韓国 現地回線 local network"}, model.NetworkLocal, true},
		{"local beats roaming in same block", []string{"現地回線 または ローミング"}, model.NetworkLocal, true},
		{"english roaming", []string{"Roaming on SKT network"}, model.NetworkRoaming, true},
		{"no keyword", []string{"韓国旅行向けプラン"}, model.NetworkUnknown, false},
	}

	r := NewNetworkTypeResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, evidence := r.Resolve(tt.blocks)
			if got != tt.want {
				t.Errorf("network = %q, want %q", got, tt.want)
			}
			if tt.wantEvidence && len(evidence) == 0 {
				t.Error("expected evidence snippet")
			}
			if !tt.wantEvidence && len(evidence) != 0 {
				t.Errorf("unknown result must carry no evidence, got %v", evidence)
			}
		})
	}
}
