package wire

import (
	"bytes"
	"testing"
)

func TestCOBSRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		{1, 2, 3},
		{1, 0, 2, 0, 3},
		bytes.Repeat([]byte{1}, 300),
		bytes.Repeat([]byte{0}, 10),
	}
	for _, payload := range cases {
		encoded := EncodeCOBS(payload)
		if bytes.IndexByte(encoded, 0) != -1 {
			t.Fatalf("EncodeCOBS(%v) contains a literal zero byte: %v", payload, encoded)
		}
		decoded, err := DecodeCOBS(encoded)
		if err != nil {
			t.Fatalf("DecodeCOBS(%v): %v", encoded, err)
		}
		if !bytes.Equal(decoded, payload) {
			t.Fatalf("round trip of %v produced %v", payload, decoded)
		}
	}
}

func TestDecodeCOBSRejectsEmptyFrame(t *testing.T) {
	if _, err := DecodeCOBS(nil); err == nil {
		t.Fatal("want error decoding an empty frame")
	}
}

func TestDecodeCOBSRejectsTruncatedRun(t *testing.T) {
	if _, err := DecodeCOBS([]byte{5, 1, 2}); err == nil {
		t.Fatal("want error decoding a frame whose run length overruns the buffer")
	}
}
