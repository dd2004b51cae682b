package extract

import "testing"

func TestDataAmountResolver(t *testing.T) {
	tests := []struct {
		name   string
		blocks []string
		want   string
	}{
		{"numeric gb", []string{"3GB / 7日"}, "3GB"},
		{"numeric gb with space", []string{"データ容量 10 GB"}, "10GB"},
		{"unlimited jp", []string{"高速データ通信 無制限"}, "unlimited"},
		{"all you can use", []string{"データ使い放題プラン"}, "unlimited"},
		{"unlimited en", []string{"Unlimited data for 7 days"}, "unlimited"},
		{"first block wins", []string{"1GB プラン", "10GB プラン"}, "1GB"},
		{"no match", []string{"韓国旅行に最適"}, ""},
	}

	r := NewDataAmountResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := r.Resolve(tt.blocks)
			if res.Value != tt.want {
				t.Errorf("value = %q, want %q", res.Value, tt.want)
			}
			if tt.want != "" && len(res.Evidence) == 0 {
				t.Error("expected evidence for resolved value")
			}
		})
	}
}
