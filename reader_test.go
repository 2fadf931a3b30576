package bencode

import (
	"errors"
	"io"
	"strings"
	"testing"
)

func parseErr(t *testing.T, s string) error {
	t.Helper()
	v, err := NewReader(strings.NewReader(s)).NextValue()
	if err == nil {
		t.Fatalf("NextValue(%q) = %s, expected error", s, v)
	}
	return err
}

func TestEmptyInputIsCleanBoundary(t *testing.T) {
	v, err := NewReader(strings.NewReader("")).NextValue()
	if v != nil || err != io.EOF {
		t.Fatalf("got (%v, %v), want (nil, io.EOF)", v, err)
	}
}

func TestReadInteger(t *testing.T) {
	cases := []struct {
		in   string
		want int64
	}{
		{"i45e", 45},
		{"i-45e", -45},
		{"i0e", 0},
		{"i9223372036854775807e", 9223372036854775807},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.in).Integer(); got != tc.want {
			t.Fatalf("parse(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestIntegerMissingSuffix(t *testing.T) {
	// Stream ends before any suffix candidate byte.
	if err := parseErr(t, "i32"); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}

	// A wrong byte where 'e' belongs.
	var suffix *MissingSuffixError
	if err := parseErr(t, "i32i33e"); !errors.As(err, &suffix) {
		t.Fatalf("got %v, want MissingSuffixError", err)
	} else if suffix.Found != 'i' || suffix.Want != 'e' {
		t.Fatalf("got found=%q want=%q", suffix.Found, suffix.Want)
	}
}

func TestCanonicalIntegerRejection(t *testing.T) {
	if err := parseErr(t, "i032e"); !errors.Is(err, ErrLeadingZero) {
		t.Fatalf("i032e: got %v, want ErrLeadingZero", err)
	}
	if err := parseErr(t, "i00e"); !errors.Is(err, ErrLeadingZero) {
		t.Fatalf("i00e: got %v, want ErrLeadingZero", err)
	}
	if err := parseErr(t, "i-0e"); !errors.Is(err, ErrNegativeZero) {
		t.Fatalf("i-0e: got %v, want ErrNegativeZero", err)
	}
}

func TestIntegerOverflow(t *testing.T) {
	var perr *IntegerParseError
	if err := parseErr(t, "i92233720368547758080e"); !errors.As(err, &perr) {
		t.Fatalf("got %v, want IntegerParseError", err)
	}
}

func TestReadString(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"0:", ""},
		{"7:unicorn", "unicorn"},
		{"12:unicornfarts", "unicornfarts"},
		{"11:unicornfarts", "unicornfart"}, // content longer than claimed: one byte left over
		{"4:1234", "1234"},
	}
	for _, tc := range cases {
		if got := mustParse(t, tc.in).Text(); got != tc.want {
			t.Fatalf("parse(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestStringMissingSeparator(t *testing.T) {
	var sep *MissingSeparatorError
	if err := parseErr(t, "3foo"); !errors.As(err, &sep) {
		t.Fatalf("got %v, want MissingSeparatorError", err)
	} else if sep.Found != 'f' || sep.Want != ':' {
		t.Fatalf("got found=%q want=%q", sep.Found, sep.Want)
	}
}

func TestStringShorterThanClaimed(t *testing.T) {
	if err := parseErr(t, "5:ab"); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("got %v, want ErrEndOfInput", err)
	}
}

func TestNegativeStringLength(t *testing.T) {
	// The public grammar cannot produce this (strings start with a digit),
	// so exercise the length-parsing primitive directly.
	r := NewReader(strings.NewReader("-10:impossible_"))
	_, err := r.readString()
	var neg *NegativeLengthError
	if !errors.As(err, &neg) {
		t.Fatalf("got %v, want NegativeLengthError", err)
	}
	if neg.Length != -10 {
		t.Fatalf("got length %d, want -10", neg.Length)
	}
}

func TestReadList(t *testing.T) {
	if got := mustParse(t, "le").Len(); got != 0 {
		t.Fatalf("empty list Len = %d", got)
	}
	if got := mustParse(t, "l3:fooe").Len(); got != 1 {
		t.Fatalf("one-element list Len = %d", got)
	}

	v := mustParse(t, "li-88e4:quuxi23ee")
	if v.Len() != 3 {
		t.Fatalf("Len = %d, want 3", v.Len())
	}
	if v.Index(0).Integer() != -88 || v.Index(1).Text() != "quux" || v.Index(2).Integer() != 23 {
		t.Fatalf("unexpected elements: %s", v)
	}
}

func TestNestedLists(t *testing.T) {
	v := mustParse(t, "ll5:mooreel3:bar4:quuxee")
	if v.Len() != 2 {
		t.Fatalf("Len = %d, want 2", v.Len())
	}
	if v.Index(0).Index(0).Text() != "moore" {
		t.Fatalf("first inner list: %s", v.Index(0))
	}
	if v.Index(1).Index(0).Text() != "bar" || v.Index(1).Index(1).Text() != "quux" {
		t.Fatalf("second inner list: %s", v.Index(1))
	}
}

func TestReadDict(t *testing.T) {
	if got := mustParse(t, "de").Len(); got != 0 {
		t.Fatalf("empty dict Len = %d", got)
	}
	v := mustParse(t, "d2:toi32e3:two5:wordse")
	if v.Len() != 2 || v.Get("to").Integer() != 32 || v.Get("two").Text() != "words" {
		t.Fatalf("unexpected dict: %s", v)
	}
}

func TestKeysOutOfOrder(t *testing.T) {
	var ooo *KeysOutOfOrderError
	if err := parseErr(t, "d3:zzz5:words3:aaai7ee"); !errors.As(err, &ooo) {
		t.Fatalf("got %v, want KeysOutOfOrderError", err)
	} else if string(ooo.Key) != "aaa" {
		t.Fatalf("offending key %q, want aaa", ooo.Key)
	}

	// Equal keys are duplicates, rejected by the same rule.
	if err := parseErr(t, "d3:aaai1e3:aaai2ee"); !errors.As(err, &ooo) {
		t.Fatalf("duplicate key: got %v, want KeysOutOfOrderError", err)
	}
}

func TestDictMissingValue(t *testing.T) {
	var mv *MissingValueError
	if err := parseErr(t, "d3:two5:words7:missinge"); !errors.As(err, &mv) {
		t.Fatalf("got %v, want MissingValueError", err)
	} else if string(mv.Key) != "missing" {
		t.Fatalf("offending key %q, want missing", mv.Key)
	}
}

func TestDictNonStringKey(t *testing.T) {
	var kns *KeyNotStringError
	if err := parseErr(t, "di666e5:words7:secondei42ee"); !errors.As(err, &kns) {
		t.Fatalf("got %v, want KeyNotStringError", err)
	} else if !kns.Value.IsInteger() || kns.Value.Integer() != 666 {
		t.Fatalf("offending value %s, want 666", kns.Value)
	}
}

func TestIllegalLeadCharacter(t *testing.T) {
	var uc *UnexpectedCharError
	if err := parseErr(t, "y"); !errors.As(err, &uc) {
		t.Fatalf("got %v, want UnexpectedCharError", err)
	} else if uc.Char != 'y' {
		t.Fatalf("offending char %q, want y", uc.Char)
	}
}

func TestTruncatedNestedValue(t *testing.T) {
	for _, in := range []string{"l", "li1e", "d", "d3:foo", "d3:fooi1e", "i", "i-"} {
		if err := parseErr(t, in); !errors.Is(err, ErrEndOfInput) {
			t.Fatalf("parse(%q): got %v, want ErrEndOfInput", in, err)
		}
	}
}

func TestSuccessiveTopLevelValues(t *testing.T) {
	r := NewReader(strings.NewReader("i1e3:foode"))
	first, err := r.NextValue()
	if err != nil || first.Integer() != 1 {
		t.Fatalf("first value: (%v, %v)", first, err)
	}
	second, err := r.NextValue()
	if err != nil || second.Text() != "foo" {
		t.Fatalf("second value: (%v, %v)", second, err)
	}
	third, err := r.NextValue()
	if err != nil || !third.IsDict() {
		t.Fatalf("third value: (%v, %v)", third, err)
	}
	if _, err := r.NextValue(); err != io.EOF {
		t.Fatalf("after last value: got %v, want io.EOF", err)
	}
}

// failReader returns a fixed error on every read.
type failReader struct{ err error }

func (f failReader) Read([]byte) (int, error) { return 0, f.err }

func TestSourceErrorIsWrapped(t *testing.T) {
	cause := errors.New("disk on fire")
	_, err := NewReader(failReader{err: cause}).NextValue()
	var ioe *IOError
	if !errors.As(err, &ioe) {
		t.Fatalf("got %v, want IOError", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause should be preserved through Unwrap")
	}
}

func TestDecodeValue(t *testing.T) {
	v, err := DecodeValue([]byte("d1:ai1ee"))
	if err != nil || v.Get("a").Integer() != 1 {
		t.Fatalf("got (%v, %v)", v, err)
	}
	if _, err := DecodeValue([]byte("i1e3:foo")); !errors.Is(err, ErrTrailingInput) {
		t.Fatalf("trailing bytes: got %v, want ErrTrailingInput", err)
	}
	if _, err := DecodeValue(nil); !errors.Is(err, ErrEndOfInput) {
		t.Fatalf("empty input: got %v, want ErrEndOfInput", err)
	}
}
