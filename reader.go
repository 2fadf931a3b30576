package bencode

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

// Reader reads bencode values one at a time from a byte source. The source is
// consumed strictly forward with one byte of lookahead; no seeking is needed.
// A Reader is not safe for concurrent use.
type Reader struct {
	r *bufio.Reader
}

// NewReader returns a Reader consuming from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: bufio.NewReader(r)}
}

// NextValue reads one top-level value from the source. At a clean boundary
// (end of stream with nothing consumed) it returns io.EOF; a stream that ends
// mid-value returns ErrEndOfInput. Callers may invoke it repeatedly to read
// successive top-level values.
func (r *Reader) NextValue() (*Value, error) {
	if _, err := r.r.Peek(1); err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, &IOError{Err: err}
	}
	return r.next()
}

// next dispatches on the lookahead byte. Unlike NextValue, end of stream here
// is always ErrEndOfInput: a nested position cannot be a clean boundary.
func (r *Reader) next() (*Value, error) {
	c, err := r.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case isDigit(c):
		return r.readString()
	case c == 'i':
		return r.readInteger()
	case c == 'l':
		return r.readList()
	case c == 'd':
		return r.readDict()
	default:
		return nil, &UnexpectedCharError{Char: c}
	}
}

// peek returns the next byte without consuming it. bufio re-surfaces the same
// read error on the following ReadByte, which keeps the error identical no
// matter whether peek or consume saw it first.
func (r *Reader) peek() (byte, error) {
	b, err := r.r.Peek(1)
	if err != nil {
		if err == io.EOF {
			return 0, ErrEndOfInput
		}
		return 0, &IOError{Err: err}
	}
	return b[0], nil
}

func (r *Reader) readByte() (byte, error) {
	c, err := r.r.ReadByte()
	if err != nil {
		if err == io.EOF {
			return 0, ErrEndOfInput
		}
		return 0, &IOError{Err: err}
	}
	return c, nil
}

// expect consumes one byte and checks it against want, reporting a mismatch
// through mk.
func (r *Reader) expect(want byte, mk func(found, want byte) error) error {
	c, err := r.readByte()
	if err != nil {
		return err
	}
	if c != want {
		return mk(c, want)
	}
	return nil
}

func missingPrefix(found, want byte) error    { return &MissingPrefixError{Found: found, Want: want} }
func missingSeparator(found, want byte) error { return &MissingSeparatorError{Found: found, Want: want} }
func missingSuffix(found, want byte) error    { return &MissingSuffixError{Found: found, Want: want} }

// readInteger reads "i<digits>e" with canonical-form checks.
func (r *Reader) readInteger() (*Value, error) {
	if err := r.expect('i', missingPrefix); err != nil {
		return nil, err
	}
	n, err := r.readRawInteger()
	if err != nil {
		return nil, err
	}
	if err := r.expect('e', missingSuffix); err != nil {
		return nil, err
	}
	return NewInteger(n), nil
}

// readString reads "<len>:<bytes>". The content bytes are taken verbatim and
// need not be valid UTF-8.
func (r *Reader) readString() (*Value, error) {
	n, err := r.readRawInteger()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, &NegativeLengthError{Length: n}
	}
	if err := r.expect(':', missingSeparator); err != nil {
		return nil, err
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, ErrEndOfInput
		}
		return nil, &IOError{Err: err}
	}
	return NewString(buf), nil
}

func (r *Reader) readList() (*Value, error) {
	if err := r.expect('l', missingPrefix); err != nil {
		return nil, err
	}
	var elems []*Value
	for {
		c, err := r.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			if _, err := r.readByte(); err != nil {
				return nil, err
			}
			return NewList(elems...), nil
		}
		v, err := r.next()
		if err != nil {
			return nil, err
		}
		elems = append(elems, v)
	}
}

func (r *Reader) readDict() (*Value, error) {
	if err := r.expect('d', missingPrefix); err != nil {
		return nil, err
	}
	dict := make(map[string]*Value)
	var lastKey []byte
	for {
		c, err := r.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			if _, err := r.readByte(); err != nil {
				return nil, err
			}
			return &Value{kind: KindDict, dict: dict}, nil
		}

		kv, err := r.next()
		if err != nil {
			return nil, err
		}
		if !kv.IsString() {
			return nil, &KeyNotStringError{Value: kv}
		}
		key := kv.Bytes()

		c, err = r.peek()
		if err != nil {
			return nil, err
		}
		if c == 'e' {
			return nil, &MissingValueError{Key: key}
		}
		val, err := r.next()
		if err != nil {
			return nil, err
		}

		// The first key has no ordering constraint; every later key must be
		// strictly greater than its predecessor (ties are duplicates).
		if lastKey != nil && bytes.Compare(key, lastKey) <= 0 {
			return nil, &KeysOutOfOrderError{Key: key}
		}
		lastKey = key
		dict[string(key)] = val
	}
}

// readRawInteger reads an optionally signed decimal with the canonical-form
// rules: no leading zero unless the value is exactly 0, and no "-0". It does
// not consume any suffix byte; strings and integers share it.
func (r *Reader) readRawInteger() (int64, error) {
	var digits []byte
	negative := false

	c, err := r.peek()
	if err != nil {
		return 0, err
	}
	if c == '-' {
		negative = true
		if _, err := r.readByte(); err != nil {
			return 0, err
		}
	}

	leadZero := false
	for {
		c, err := r.peek()
		if err != nil {
			return 0, err
		}
		if !isDigit(c) {
			break
		}
		if len(digits) > 0 && leadZero {
			return 0, ErrLeadingZero
		}
		if len(digits) == 0 && c == '0' {
			leadZero = true
		}
		digits = append(digits, c)
		if _, err := r.readByte(); err != nil {
			return 0, err
		}
	}

	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0, &IntegerParseError{Err: err}
	}
	if n == 0 && negative {
		return 0, ErrNegativeZero
	}
	if negative {
		n = -n
	}
	return n, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// DecodeValue parses exactly one value from data. Remaining bytes after the
// value are ErrTrailingInput; empty input is ErrEndOfInput.
func DecodeValue(data []byte) (*Value, error) {
	r := NewReader(bytes.NewReader(data))
	v, err := r.NextValue()
	if err == io.EOF {
		return nil, ErrEndOfInput
	}
	if err != nil {
		return nil, err
	}
	if _, err := r.r.Peek(1); err != io.EOF {
		return nil, ErrTrailingInput
	}
	return v, nil
}
