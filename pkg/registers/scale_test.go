package registers

import "testing"

func TestDecodeScaledSignedNegativeBoundary(t *testing.T) {
	// A signed register reading 0x8000 decodes as -32768, not 32768.
	got := DecodeScaledSigned(0x8000, 100)
	want := -327.68
	if got != want {
		t.Errorf("DecodeScaledSigned(0x8000, 100) = %v, want %v", got, want)
	}
}

func TestDecodeScaledSignedPositive(t *testing.T) {
	got := DecodeScaledSigned(250, 100)
	if got != 2.50 {
		t.Errorf("got %v, want 2.50", got)
	}
}

func TestDecodeScaledSignedNegativeSmall(t *testing.T) {
	got := DecodeScaledSigned(0xFF6A, 100) // 0xFF6A is -150 in two's complement
	if got != -1.50 {
		t.Errorf("got %v, want -1.50", got)
	}
}

func TestDecodePairRoundTrip(t *testing.T) {
	for _, want := range []uint32{0, 1, 0xFFFF, 0x10000, 0xFFFFFFFF, 7} {
		low := uint16(want)
		high := uint16(want >> 16)
		got := DecodePair(low, high)
		if got != want {
			t.Errorf("DecodePair(%d, %d) = %d, want %d", low, high, got, want)
		}
	}
}

func TestVersionRoundTrip(t *testing.T) {
	v := Version{Major: 2, Minor: 7}
	reg := EncodeVersion(v)
	got := DecodeVersion(reg)
	if got != v {
		t.Errorf("got %+v, want %+v", got, v)
	}
}

func TestDecodeASCIICode(t *testing.T) {
	reg := uint16('L')<<8 | uint16('o')
	if got := DecodeASCIICode(reg); got != "Lo" {
		t.Errorf("got %q, want %q", got, "Lo")
	}
}

func TestDecodeASCIICodeNonPrintable(t *testing.T) {
	if got := DecodeASCIICode(0x0001); got != "" {
		t.Errorf("got %q, want empty string for non-printable code", got)
	}
}

func TestCapabilityHas(t *testing.T) {
	c := CapabilityMPU6050 | CapabilityLoad
	if !c.Has(CapabilityMPU6050) {
		t.Error("expected MPU6050 capability")
	}
	if c.Has(CapabilityWind) {
		t.Error("did not expect Wind capability")
	}
	if c.String() == "" {
		t.Error("String() should not be empty for a nonzero capability set")
	}
}

func TestCapabilityStringNone(t *testing.T) {
	if got := Capability(0).String(); got != "none" {
		t.Errorf("got %q, want %q", got, "none")
	}
}
