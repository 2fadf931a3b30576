package bencode

import (
	"errors"
	"fmt"
	"reflect"
)

// Parser errors. Each malformed input fails the same way every time; there is
// nothing to retry and no partial value is ever returned.
var (
	// ErrEndOfInput is returned when the byte source ends in the middle of a
	// value. A clean end of stream between values is io.EOF instead.
	ErrEndOfInput = errors.New("bencode: unexpected end of input")

	// ErrLeadingZero is returned for integers with a superfluous leading
	// zero, e.g. "i032e" or "i00e". "i0e" is the only valid zero.
	ErrLeadingZero = errors.New("bencode: leading '0' not permitted in integer")

	// ErrNegativeZero is returned for "i-0e".
	ErrNegativeZero = errors.New("bencode: negative zero not permitted")

	// ErrInvalidUTF8 is returned when a byte string must be valid UTF-8
	// (for example when decoding into a Go string) and is not.
	ErrInvalidUTF8 = errors.New("bencode: byte string is not valid UTF-8")
)

// Typed-adapter errors.
var (
	ErrExpectedList       = errors.New("bencode: expected 'l' to start the list")
	ErrExpectedListEnd    = errors.New("bencode: expected 'e' to end the list")
	ErrExpectedMap        = errors.New("bencode: expected 'd' to start the dict")
	ErrExpectedMapEnd     = errors.New("bencode: expected 'e' to end the dict")
	ErrExpectedIntegerEnd = errors.New("bencode: expected 'e' to end the integer")

	// ErrTrailingInput is returned by Unmarshal and DecodeValue when bytes
	// remain after the one expected top-level value.
	ErrTrailingInput = errors.New("bencode: trailing input after value")
)

// IOError wraps a read failure from the underlying byte source. The codec
// never retries; retrying is the byte source's concern.
type IOError struct {
	Err error
}

func (e *IOError) Error() string { return fmt.Sprintf("bencode: read failed: %v", e.Err) }
func (e *IOError) Unwrap() error { return e.Err }

// KeyNotStringError reports a dict key that decoded to a non-string value.
type KeyNotStringError struct {
	Value *Value // the offending key
}

func (e *KeyNotStringError) Error() string {
	return fmt.Sprintf("bencode: dict keys must be strings, got %s %s", e.Value.Kind(), e.Value)
}

// KeysOutOfOrderError reports a dict key that is not strictly greater than
// the key before it.
type KeysOutOfOrderError struct {
	Key []byte // the offending key
}

func (e *KeysOutOfOrderError) Error() string {
	return fmt.Sprintf("bencode: dict key %q is not in lexicographical order", e.Key)
}

// MissingPrefixError reports a value that did not start with the expected
// marker byte.
type MissingPrefixError struct {
	Found, Want byte
}

func (e *MissingPrefixError) Error() string {
	return fmt.Sprintf("bencode: missing prefix character, expected %q, found %q", e.Want, e.Found)
}

// MissingSeparatorError reports a string whose length was not followed by the
// ':' separator.
type MissingSeparatorError struct {
	Found, Want byte
}

func (e *MissingSeparatorError) Error() string {
	return fmt.Sprintf("bencode: missing separator character, expected %q, found %q", e.Want, e.Found)
}

// MissingSuffixError reports a value that was not closed by the expected
// terminator byte.
type MissingSuffixError struct {
	Found, Want byte
}

func (e *MissingSuffixError) Error() string {
	return fmt.Sprintf("bencode: missing suffix character, expected %q, found %q", e.Want, e.Found)
}

// MissingValueError reports a dict key with no value before the dict
// terminator.
type MissingValueError struct {
	Key []byte
}

func (e *MissingValueError) Error() string {
	return fmt.Sprintf("bencode: dict key %q is missing a value", e.Key)
}

// NegativeLengthError reports a negative string length. The public grammar
// cannot produce one (a string starts with a digit), so this is only
// reachable through the length-parsing primitive itself.
type NegativeLengthError struct {
	Length int64
}

func (e *NegativeLengthError) Error() string {
	return fmt.Sprintf("bencode: negative string lengths are not permitted (%d)", e.Length)
}

// IntegerParseError wraps a numeric-parse failure, including 64-bit overflow
// and an empty digit run.
type IntegerParseError struct {
	Err error
}

func (e *IntegerParseError) Error() string {
	return fmt.Sprintf("bencode: malformed integer: %v", e.Err)
}
func (e *IntegerParseError) Unwrap() error { return e.Err }

// UnexpectedCharError reports a byte that cannot start a bencode value.
type UnexpectedCharError struct {
	Char byte
}

func (e *UnexpectedCharError) Error() string {
	return fmt.Sprintf("bencode: unexpected character %q", e.Char)
}

// UnexpectedPrefixError reports a typed decode that found the wrong marker
// byte for the requested type.
type UnexpectedPrefixError struct {
	Found, Want byte
}

func (e *UnexpectedPrefixError) Error() string {
	return fmt.Sprintf("bencode: expected %q, found %q", e.Want, e.Found)
}

// UnsignedSignError reports a negative encoded integer decoded into an
// unsigned target type.
type UnsignedSignError struct {
	Type reflect.Type
}

func (e *UnsignedSignError) Error() string {
	return fmt.Sprintf("bencode: negative integer for unsigned type %s", e.Type)
}

// MarshalTypeError reports a Go type that has no bencode representation
// (floats, channels, funcs, ...).
type MarshalTypeError struct {
	Type reflect.Type
}

func (e *MarshalTypeError) Error() string {
	if e.Type == nil {
		return "bencode: unsupported value: nil"
	}
	return "bencode: unsupported type: " + e.Type.String()
}

// UnmarshalInvalidArgError reports an Unmarshal target that is not a non-nil
// pointer.
type UnmarshalInvalidArgError struct {
	Type reflect.Type
}

func (e *UnmarshalInvalidArgError) Error() string {
	if e.Type == nil {
		return "bencode: Unmarshal(nil)"
	}
	if e.Type.Kind() != reflect.Ptr {
		return "bencode: Unmarshal(non-pointer " + e.Type.String() + ")"
	}
	return "bencode: Unmarshal(nil " + e.Type.String() + ")"
}

// UnmarshalTypeError reports an encoded value that is not appropriate for
// the target Go type (wrong wire kind, or an integer that overflows it).
type UnmarshalTypeError struct {
	Value string
	Type  reflect.Type
}

func (e *UnmarshalTypeError) Error() string {
	return "bencode: cannot decode " + e.Value + " into " + e.Type.String()
}

// MissingFieldError reports a required struct field whose key never appeared
// in the encoded dict. Fields of pointer, slice or map kind are optional and
// simply stay nil when absent.
type MissingFieldError struct {
	Field string
	Type  reflect.Type
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("bencode: required field %q missing for %s", e.Field, e.Type)
}
