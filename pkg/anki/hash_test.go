package anki

import "testing"

func TestDigestKnownVectors(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{input: "", want: "da39a3ee5e6b4b0d3255bfef95601890afd80709"},
		{input: "abc", want: "a9993e364706816aba3e25717850c26c9cd0d89d"},
		{input: "The quick brown fox jumps over the lazy dog", want: "2fd4e1c67a2d28fced849ee1bb76e7391b93eb12"},
	}

	for _, tc := range cases {
		if got := Digest(tc.input); got != tc.want {
			t.Fatalf("Digest(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestChecksum(t *testing.T) {
	// First 8 hex chars of the empty-string digest: da39a3ee.
	if got := Checksum(""); got != 0xda39a3ee {
		t.Fatalf("Checksum(\"\") = %#x, want 0xda39a3ee", got)
	}
	// a9993e36 from the "abc" digest.
	if got := Checksum("abc"); got != 0xa9993e36 {
		t.Fatalf("Checksum(\"abc\") = %#x, want 0xa9993e36", got)
	}
}

func TestDigestDeterminism(t *testing.T) {
	const message = "front\x1fback"
	first := Digest(message)
	for i := 0; i < 10; i++ {
		if got := Digest(message); got != first {
			t.Fatalf("Digest not deterministic: %q != %q", got, first)
		}
	}
	if Checksum(message) != Checksum(message) {
		t.Fatalf("Checksum not deterministic")
	}
}
