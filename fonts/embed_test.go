package fonts

import (
	"bytes"
	"testing"
)

func TestLoadBuiltin(t *testing.T) {
	for _, src := range []string{"embed:goregular", "gobold", "embed:GoMono.ttf"} {
		data, err := Load(src)
		if err != nil {
			t.Fatalf("Load(%q) error: %v", src, err)
		}
		if len(data) < 4 || !bytes.Equal(data[:4], []byte{0, 1, 0, 0}) {
			t.Fatalf("Load(%q) did not return a TrueType font", src)
		}
	}
}

func TestLoadUnknown(t *testing.T) {
	if _, err := Load("embed:Inter-Regular"); err == nil {
		t.Fatalf("expected error for unknown font")
	}
	if !IsEmbedded(Default) {
		t.Fatalf("Default must be an embedded font")
	}
}
