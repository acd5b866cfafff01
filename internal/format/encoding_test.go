package format

import "testing"

func TestWordRoundTrip(t *testing.T) {
	buf := make([]byte, 32)
	PutU64(buf, 8, 0x1013)
	if buf[8] != 0x13 || buf[9] != 0x10 {
		t.Fatalf("expected little-endian bytes, got % x", buf[8:16])
	}
	if got := ReadU64(buf, 8); got != 0x1013 {
		t.Fatalf("ReadU64=%#x want 0x1013", got)
	}

	PutOffset(buf, 16, 4104)
	if got := ReadOffset(buf, 16); got != 4104 {
		t.Fatalf("ReadOffset=%d want 4104", got)
	}
	if got := ReadU64(buf, 8); got != 0x1013 {
		t.Fatalf("neighbouring word clobbered: %#x", got)
	}
}

func TestWordOutOfRangePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for a word past the end")
		}
	}()
	ReadU64(make([]byte, 12), 8)
}
