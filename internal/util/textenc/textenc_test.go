package textenc

import "testing"

func TestDecodeUTF8Passthrough(t *testing.T) {
	in := "plain ascii and ünïcode ✓"
	if got := Decode([]byte(in)); got != in {
		t.Errorf("Decode = %q, want %q", got, in)
	}
}

func TestDecodeLatin1Fallback(t *testing.T) {
	// "Café" in ISO 8859-1: é is 0xE9, invalid as UTF-8.
	in := []byte{'C', 'a', 'f', 0xE9}
	if got := Decode(in); got != "Café" {
		t.Errorf("Decode = %q, want %q", got, "Café")
	}
}

func TestDecodeEmpty(t *testing.T) {
	if got := Decode(nil); got != "" {
		t.Errorf("Decode(nil) = %q", got)
	}
}
