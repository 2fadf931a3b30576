package bencode

import (
	"bytes"
	"testing"
)

func TestEncodeRoundTripsBytes(t *testing.T) {
	// Canonical input must re-encode to the identical bytes.
	cases := []string{
		"i0e",
		"i-45e",
		"i45e",
		"0:",
		"4:quux",
		"le",
		"li-88e4:quuxi23ee",
		"ll5:mooreel3:bar4:quuxee",
		"de",
		"d2:toi32e3:two5:wordse",
		"d4:infod5:filesld6:lengthi512e4:pathl3:foo3:bareeeee",
	}
	for _, in := range cases {
		v := mustParse(t, in)
		if got := Encode(v); !bytes.Equal(got, []byte(in)) {
			t.Fatalf("Encode(parse(%q)) = %q", in, got)
		}
	}
}

func TestEncodeRoundTripsValues(t *testing.T) {
	v := NewDict(map[string]*Value{
		"list": NewList(NewInteger(1), NewText("two")),
		"int":  NewInteger(-7),
		"raw":  NewString([]byte{0x00, 0xff}),
	})
	re, err := DecodeValue(Encode(v))
	if err != nil {
		t.Fatalf("re-parse error: %v", err)
	}
	if !v.Equal(re) {
		t.Fatalf("round trip mismatch: %s != %s", v, re)
	}
}

func TestEncodeSortsDictKeys(t *testing.T) {
	v := NewDict(map[string]*Value{
		"zz": NewInteger(1),
		"a":  NewInteger(2),
		"m":  NewInteger(3),
	})
	want := "d1:ai2e1:mi3e2:zzi1ee"
	if got := string(Encode(v)); got != want {
		t.Fatalf("Encode = %q, want %q", got, want)
	}
}

func TestEncodeBinaryString(t *testing.T) {
	v := NewString([]byte{0xde, 0xad})
	if got := Encode(v); !bytes.Equal(got, []byte{'2', ':', 0xde, 0xad}) {
		t.Fatalf("Encode = %q", got)
	}
}
