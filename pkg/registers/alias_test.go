package registers

import "testing"

func TestEncodeAliasMatchesTowerAExample(t *testing.T) {
	regs := EncodeAlias("Tower_A")
	want := []uint16{7, 0x546F, 0x7765, 0x725F, 0x4100}
	if len(regs) != len(want) {
		t.Fatalf("len(regs) = %d, want %d", len(regs), len(want))
	}
	for i, w := range want {
		if regs[i] != w {
			t.Errorf("regs[%d] = 0x%04X, want 0x%04X", i, regs[i], w)
		}
	}
}

func TestAliasRoundTrip(t *testing.T) {
	cases := []string{"", "A", "Tower_A", "sixty-four-byte-aliases-are-accepted-right-up-to-the-limit!!!!!!"}
	for _, alias := range cases {
		regs := EncodeAlias(alias)
		got := DecodeAlias(regs[0], regs[1:])
		if got != alias {
			t.Errorf("round trip %q -> %q", alias, got)
		}
	}
}

func TestEncodeAliasClampsTo64Bytes(t *testing.T) {
	long := make([]byte, 100)
	for i := range long {
		long[i] = 'x'
	}
	regs := EncodeAlias(string(long))
	if regs[0] != 64 {
		t.Errorf("length register = %d, want 64", regs[0])
	}
	if len(regs) != 1+32 {
		t.Errorf("len(regs) = %d, want 33", len(regs))
	}
}

func TestDecodeAliasStripsNonPrintable(t *testing.T) {
	data := []uint16{0x4100 | 0x01} // 'A', 0x01
	got := DecodeAlias(2, data)
	if got != "A" {
		t.Errorf("got %q, want %q", got, "A")
	}
}

func TestDecodeAliasOddLengthPadding(t *testing.T) {
	regs := EncodeAlias("odd")
	// "odd" is 3 bytes; padded to 4 -> 2 registers.
	if len(regs) != 1+2 {
		t.Fatalf("len(regs) = %d, want 3", len(regs))
	}
	if regs[0] != 3 {
		t.Errorf("length register = %d, want 3", regs[0])
	}
	got := DecodeAlias(regs[0], regs[1:])
	if got != "odd" {
		t.Errorf("got %q, want %q", got, "odd")
	}
}
