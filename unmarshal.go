package bencode

import (
	"bytes"
	"reflect"
	"strconv"
	"unicode/utf8"
)

// Unmarshal decodes data into the value pointed to by v, which must be a
// non-nil pointer. Exactly one top-level value is decoded and the input must
// end there; leftover bytes are ErrTrailingInput.
//
// Decoding enforces the same canonical-form rules as the streaming parser:
// no leading zeros, no negative zero, dict keys strictly ascending. The two
// paths are independent implementations but agree on every edge case.
//
// Mapping rules: a bool decodes from any integer (zero is false, anything
// else true); signed and unsigned integer targets take "i...e" with sign and
// width checks; string targets require valid UTF-8 while []byte targets take
// the bytes verbatim; slices and arrays take lists; maps with string keys and
// structs take dicts. Struct fields follow the same `bencode:"name"` tags as
// Marshal. Keys with no matching field are read and discarded. Absent fields
// of pointer, slice or map kind stay nil; any other absent field is a
// MissingFieldError.
func Unmarshal(data []byte, v any) error {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		var t reflect.Type
		if v != nil {
			t = reflect.TypeOf(v)
		}
		return &UnmarshalInvalidArgError{Type: t}
	}
	d := &decodeState{data: data}
	if err := d.value(rv.Elem()); err != nil {
		return err
	}
	if d.off != len(d.data) {
		return ErrTrailingInput
	}
	return nil
}

// decodeState is a forward-only cursor over the input buffer with one byte of
// lookahead.
type decodeState struct {
	data []byte
	off  int
}

func (d *decodeState) peek() (byte, error) {
	if d.off >= len(d.data) {
		return 0, ErrEndOfInput
	}
	return d.data[d.off], nil
}

func (d *decodeState) next() (byte, error) {
	c, err := d.peek()
	if err != nil {
		return 0, err
	}
	d.off++
	return c, nil
}

func (d *decodeState) value(v reflect.Value) error {
	switch v.Kind() {
	case reflect.Bool:
		n, err := d.integer()
		if err != nil {
			return err
		}
		v.SetBool(n != 0)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := d.integer()
		if err != nil {
			return err
		}
		if v.OverflowInt(n) {
			return &UnmarshalTypeError{Value: "integer " + strconv.FormatInt(n, 10), Type: v.Type()}
		}
		v.SetInt(n)
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := d.unsignedInteger(v.Type())
		if err != nil {
			return err
		}
		if v.OverflowUint(n) {
			return &UnmarshalTypeError{Value: "integer " + strconv.FormatUint(n, 10), Type: v.Type()}
		}
		v.SetUint(n)
		return nil

	case reflect.String:
		b, err := d.byteString()
		if err != nil {
			return err
		}
		if !utf8.Valid(b) {
			return ErrInvalidUTF8
		}
		v.SetString(string(b))
		return nil

	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.byteString()
			if err != nil {
				return err
			}
			v.SetBytes(append([]byte(nil), b...))
			return nil
		}
		return d.list(v)

	case reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			b, err := d.byteString()
			if err != nil {
				return err
			}
			if len(b) != v.Len() {
				return &UnmarshalTypeError{Value: "string of " + strconv.Itoa(len(b)) + " bytes", Type: v.Type()}
			}
			reflect.Copy(v, reflect.ValueOf(b))
			return nil
		}
		return d.array(v)

	case reflect.Map:
		return d.dictIntoMap(v)

	case reflect.Struct:
		return d.dictIntoStruct(v)

	case reflect.Ptr:
		if v.IsNil() {
			v.Set(reflect.New(v.Type().Elem()))
		}
		return d.value(v.Elem())

	case reflect.Interface:
		if v.NumMethod() != 0 {
			return &UnmarshalTypeError{Value: "value", Type: v.Type()}
		}
		x, err := d.anyValue()
		if err != nil {
			return err
		}
		v.Set(reflect.ValueOf(x))
		return nil

	default:
		return &UnmarshalTypeError{Value: "value", Type: v.Type()}
	}
}

// integer decodes "i<digits>e" or "i-<digits>e" with canonical checks.
func (d *decodeState) integer() (int64, error) {
	if err := d.expectMarker('i'); err != nil {
		return 0, err
	}
	negative := false
	if c, err := d.peek(); err != nil {
		return 0, err
	} else if c == '-' {
		negative = true
		d.off++
	}
	n, err := d.digits()
	if err != nil {
		return 0, err
	}
	if negative && n == 0 {
		return 0, ErrNegativeZero
	}
	if err := d.expectEnd(ErrExpectedIntegerEnd); err != nil {
		return 0, err
	}
	if negative {
		n = -n
	}
	return n, nil
}

// unsignedInteger decodes "i<digits>e", rejecting a minus sign for the
// unsigned target type t.
func (d *decodeState) unsignedInteger(t reflect.Type) (uint64, error) {
	if err := d.expectMarker('i'); err != nil {
		return 0, err
	}
	if c, err := d.peek(); err != nil {
		return 0, err
	} else if c == '-' {
		return 0, &UnsignedSignError{Type: t}
	}
	run, err := d.digitRun()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseUint(string(run), 10, 64)
	if err != nil {
		return 0, &IntegerParseError{Err: err}
	}
	if err := d.expectEnd(ErrExpectedIntegerEnd); err != nil {
		return 0, err
	}
	return n, nil
}

// digits consumes a canonical run of decimal digits and parses it as int64.
func (d *decodeState) digits() (int64, error) {
	run, err := d.digitRun()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(run), 10, 64)
	if err != nil {
		return 0, &IntegerParseError{Err: err}
	}
	return n, nil
}

// digitRun consumes a canonical run of decimal digits: non-empty, no leading
// zero unless the run is exactly "0".
func (d *decodeState) digitRun() ([]byte, error) {
	start := d.off
	for {
		c, err := d.peek()
		if err != nil {
			return nil, err
		}
		if !isDigit(c) {
			break
		}
		d.off++
	}
	run := d.data[start:d.off]
	if len(run) > 1 && run[0] == '0' {
		return nil, ErrLeadingZero
	}
	return run, nil
}

func (d *decodeState) expectMarker(want byte) error {
	c, err := d.next()
	if err != nil {
		return err
	}
	if c != want {
		return &UnexpectedPrefixError{Found: c, Want: want}
	}
	return nil
}

func (d *decodeState) expectEnd(sentinel error) error {
	c, err := d.next()
	if err != nil {
		return err
	}
	if c != 'e' {
		return sentinel
	}
	return nil
}

// byteString decodes "<len>:<bytes>" and returns a subslice of the input.
func (d *decodeState) byteString() ([]byte, error) {
	n, err := d.digits()
	if err != nil {
		return nil, err
	}
	c, err := d.next()
	if err != nil {
		return nil, err
	}
	if c != ':' {
		return nil, &MissingSeparatorError{Found: c, Want: ':'}
	}
	if n > int64(len(d.data)-d.off) {
		return nil, ErrEndOfInput
	}
	b := d.data[d.off : d.off+int(n)]
	d.off += int(n)
	return b, nil
}

func (d *decodeState) list(v reflect.Value) error {
	if err := d.expectList(); err != nil {
		return err
	}
	slice := reflect.MakeSlice(v.Type(), 0, 4)
	for {
		c, err := d.peek()
		if err != nil {
			return err
		}
		if c == 'e' {
			d.off++
			v.Set(slice)
			return nil
		}
		elem := reflect.New(v.Type().Elem()).Elem()
		if err := d.value(elem); err != nil {
			return err
		}
		slice = reflect.Append(slice, elem)
	}
}

// array decodes a list into a fixed-size array; the element count must match
// exactly.
func (d *decodeState) array(v reflect.Value) error {
	if err := d.expectList(); err != nil {
		return err
	}
	for i := 0; i < v.Len(); i++ {
		c, err := d.peek()
		if err != nil {
			return err
		}
		if c == 'e' {
			return &UnmarshalTypeError{Value: "list of " + strconv.Itoa(i) + " elements", Type: v.Type()}
		}
		if err := d.value(v.Index(i)); err != nil {
			return err
		}
	}
	c, err := d.next()
	if err != nil {
		return err
	}
	if c != 'e' {
		return ErrExpectedListEnd
	}
	return nil
}

func (d *decodeState) expectList() error {
	c, err := d.next()
	if err != nil {
		return err
	}
	if c != 'l' {
		return ErrExpectedList
	}
	return nil
}

func (d *decodeState) expectDict() error {
	c, err := d.next()
	if err != nil {
		return err
	}
	if c != 'd' {
		return ErrExpectedMap
	}
	return nil
}

// dictKeys walks "d (key value)* e", enforcing the string-key, value-present
// and strict-ordering rules, and calls each with every pair's key positioned
// just before the value. each must consume exactly one value.
func (d *decodeState) dictKeys(each func(key []byte) error) error {
	if err := d.expectDict(); err != nil {
		return err
	}
	var lastKey []byte
	for {
		c, err := d.peek()
		if err != nil {
			return err
		}
		if c == 'e' {
			d.off++
			return nil
		}

		key, err := d.byteString()
		if err != nil {
			return err
		}
		if lastKey != nil && bytes.Compare(key, lastKey) <= 0 {
			return &KeysOutOfOrderError{Key: key}
		}
		lastKey = key

		c, err = d.peek()
		if err != nil {
			return err
		}
		if c == 'e' {
			return &MissingValueError{Key: key}
		}
		if err := each(key); err != nil {
			return err
		}
	}
}

func (d *decodeState) dictIntoMap(v reflect.Value) error {
	t := v.Type()
	if t.Key().Kind() != reflect.String {
		return &UnmarshalTypeError{Value: "dict", Type: t}
	}
	if v.IsNil() {
		v.Set(reflect.MakeMap(t))
	}
	return d.dictKeys(func(key []byte) error {
		elem := reflect.New(t.Elem()).Elem()
		if err := d.value(elem); err != nil {
			return err
		}
		v.SetMapIndex(reflect.ValueOf(string(key)).Convert(t.Key()), elem)
		return nil
	})
}

func (d *decodeState) dictIntoStruct(v reflect.Value) error {
	t := v.Type()
	byName := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if name, ok := fieldName(t.Field(i)); ok {
			byName[name] = i
		}
	}

	seen := make(map[string]bool, len(byName))
	err := d.dictKeys(func(key []byte) error {
		i, ok := byName[string(key)]
		if !ok {
			return d.skipValue()
		}
		seen[string(key)] = true
		return d.value(v.Field(i))
	})
	if err != nil {
		return err
	}

	for name, i := range byName {
		if seen[name] {
			continue
		}
		switch t.Field(i).Type.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map:
			// nil is the field's "no value" representation
		default:
			return &MissingFieldError{Field: name, Type: t}
		}
	}
	return nil
}

// skipValue reads and discards one value, still applying canonical checks.
func (d *decodeState) skipValue() error {
	c, err := d.peek()
	if err != nil {
		return err
	}
	switch {
	case isDigit(c):
		_, err := d.byteString()
		return err
	case c == 'i':
		_, err := d.integer()
		return err
	case c == 'l':
		d.off++
		for {
			c, err := d.peek()
			if err != nil {
				return err
			}
			if c == 'e' {
				d.off++
				return nil
			}
			if err := d.skipValue(); err != nil {
				return err
			}
		}
	case c == 'd':
		return d.dictKeys(func([]byte) error { return d.skipValue() })
	default:
		return &UnexpectedCharError{Char: c}
	}
}

// anyValue decodes one value into plain Go types: int64, string (or []byte
// when not valid UTF-8), []any, map[string]any.
func (d *decodeState) anyValue() (any, error) {
	c, err := d.peek()
	if err != nil {
		return nil, err
	}
	switch {
	case isDigit(c):
		b, err := d.byteString()
		if err != nil {
			return nil, err
		}
		if utf8.Valid(b) {
			return string(b), nil
		}
		return append([]byte(nil), b...), nil
	case c == 'i':
		return d.integer()
	case c == 'l':
		d.off++
		out := []any{}
		for {
			c, err := d.peek()
			if err != nil {
				return nil, err
			}
			if c == 'e' {
				d.off++
				return out, nil
			}
			elem, err := d.anyValue()
			if err != nil {
				return nil, err
			}
			out = append(out, elem)
		}
	case c == 'd':
		out := make(map[string]any)
		err := d.dictKeys(func(key []byte) error {
			elem, err := d.anyValue()
			if err != nil {
				return err
			}
			out[string(key)] = elem
			return nil
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, &UnexpectedCharError{Char: c}
	}
}
