package util

import "testing"

func TestThousands(t *testing.T) {
	cases := map[float64]string{
		0:           "0",
		999:         "999",
		1000:        "1,000",
		1234567.89:  "1,234,567",
		-2500000:    "-2,500,000",
		100000000.5: "100,000,000",
	}
	for in, want := range cases {
		if got := Thousands(in); got != want {
			t.Fatalf("Thousands(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("abcdef", 4); got != "abcd" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abc", 10); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
	if got := Truncate("abc", 0); got != "abc" {
		t.Fatalf("unexpected %q", got)
	}
}
