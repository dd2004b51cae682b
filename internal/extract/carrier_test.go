package extract

import "testing"

func TestCarrierSupportResolver_AllThree(t *testing.T) {
	r := NewCarrierSupportResolver()
	support, evidence := r.Resolve([]string{"韓国 SKT KT LG U+ 対応キャリア"})

	if support.SKT == nil || !*support.SKT {
		t.Error("expected SKT support")
	}
	if support.KT == nil || !*support.KT {
		t.Error("expected KT support")
	}
	if support.LGU == nil || !*support.LGU {
		t.Error("expected LG U+ support")
	}
	if len(evidence) == 0 {
		t.Error("expected evidence for carrier block")
	}
}

func TestCarrierSupportResolver_RequiresKoreaMention(t *testing.T) {
	r := NewCarrierSupportResolver()
	support, evidence := r.Resolve([]string{"SKT KT LG U+ 対応"})

	if support.SKT != nil || support.KT != nil || support.LGU != nil {
		t.Errorf("block without a Korea mention must be ignored, got %+v", support)
	}
	if len(evidence) != 0 {
		t.Errorf("expected no evidence, got %v", evidence)
	}
}

func TestCarrierSupportResolver_KTWordBoundary(t *testing.T) {
	r := NewCarrierSupportResolver()

	// SKT alone must not toggle the KT flag.
	support, _ := r.Resolve([]string{"韓国 SKT回線を利用"})
	if support.SKT == nil || !*support.SKT {
		t.Error("expected SKT support")
	}
	if support.KT != nil {
		t.Errorf("KT must not fire inside SKT, got %v", *support.KT)
	}
}

func TestCarrierSupportResolver_SupportedCarriersPhrase(t *testing.T) {
	r := NewCarrierSupportResolver()
	support, evidence := r.Resolve([]string{"韓国全土で사용 가능"})

	if support.SKT != nil || support.KT != nil || support.LGU != nil {
		t.Errorf("no carrier named, flags must stay unset, got %+v", support)
	}
	if len(evidence) == 0 {
		t.Error("availability phrase should still contribute evidence")
	}
}
