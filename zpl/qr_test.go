package zpl

import "testing"

func TestQRModeForDataNumeric(t *testing.T) {
	if mode := qrModeForData("0123456789"); mode != "numeric" {
		t.Errorf("mode = %q, want numeric", mode)
	}
}

func TestQRModeForDataAlphanumeric(t *testing.T) {
	if mode := qrModeForData("ASSET-123"); mode != "alphanumeric" {
		t.Errorf("mode = %q, want alphanumeric", mode)
	}
}

func TestQRModeForDataByte(t *testing.T) {
	if mode := qrModeForData("asset_tag_42"); mode != "byte" {
		t.Errorf("mode = %q, want byte", mode)
	}
}

func TestQRVersionForDataSmallPayloadIsVersion1(t *testing.T) {
	version, _, err := QRVersionForData("1234", "M")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if version != 1 {
		t.Errorf("version = %d, want 1", version)
	}
}

func TestQRVersionForDataHigherECCNeedsMoreVersion(t *testing.T) {
	data := ""
	for i := 0; i < 60; i++ {
		data += "A"
	}
	vL, _, errL := QRVersionForData(data, "L")
	vH, _, errH := QRVersionForData(data, "H")
	if errL != nil || errH != nil {
		t.Fatalf("unexpected errors: %v %v", errL, errH)
	}
	if vH < vL {
		t.Errorf("higher ECC should need version >= lower ECC version, got H=%d L=%d", vH, vL)
	}
}

func TestQRVersionForDataTooLargeFails(t *testing.T) {
	huge := make([]byte, 5000)
	for i := range huge {
		huge[i] = 'x'
	}
	_, _, err := QRVersionForData(string(huge), "H")
	if err == nil {
		t.Fatal("expected error for oversized payload")
	}
}

func TestQRModulesPerSide(t *testing.T) {
	if got := QRModulesPerSide(1); got != 21 {
		t.Errorf("modules(1) = %d, want 21", got)
	}
	if got := QRModulesPerSide(40); got != 177 {
		t.Errorf("modules(40) = %d, want 177", got)
	}
}

func TestQRMaxMagnificationForBox(t *testing.T) {
	modules := QRModulesPerSide(1) // 21
	if got := QRMaxMagnificationForBox(modules, 210, 260); got != 10 {
		t.Errorf("mag = %d, want 10", got)
	}
	if got := QRMaxMagnificationForBox(modules, 210, 20); got != 0 {
		t.Errorf("mag = %d, want 0 (height too small for forced-top band)", got)
	}
	if got := QRMaxMagnificationForBox(modules, 20, 260); got != 0 {
		t.Errorf("mag = %d, want 0 (does not fit)", got)
	}
}

func TestQRDefaultMagnificationTable(t *testing.T) {
	cases := map[int]int{203: 3, 300: 4, 600: 6}
	for dpi, want := range cases {
		if got := QRDefaultMagnification(dpi); got != want {
			t.Errorf("QRDefaultMagnification(%d) = %d, want %d", dpi, got, want)
		}
	}
}
