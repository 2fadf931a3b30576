package bencode

import (
	"bytes"
	"reflect"
	"sort"
	"strconv"
)

// Marshal encodes v as canonical bencode without any per-type glue: bools and
// integers become "i...e" (true is 1), strings and []byte become
// length-prefixed byte strings, slices and arrays become lists, and maps with
// string keys and structs become dicts with keys in ascending byte order.
//
// Struct fields use the `bencode:"name"` tag when present, the Go field name
// otherwise; a tag of "-" skips the field. A nil pointer, slice or map field
// is omitted entirely: bencode has no null token, so absence encodes absence.
// Field
// declaration order never matters; each field is serialized into its own
// buffer and the buffers are concatenated in key order when the dict closes.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalValue(&buf, reflect.ValueOf(v)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalValue(buf *bytes.Buffer, v reflect.Value) error {
	if !v.IsValid() {
		return &MarshalTypeError{Type: nil}
	}
	switch v.Kind() {
	case reflect.Bool:
		n := int64(0)
		if v.Bool() {
			n = 1
		}
		writeInt(buf, n)
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		writeInt(buf, v.Int())
		return nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatUint(v.Uint(), 10))
		buf.WriteByte('e')
		return nil

	case reflect.String:
		s := v.String()
		buf.WriteString(strconv.Itoa(len(s)))
		buf.WriteByte(':')
		buf.WriteString(s)
		return nil

	case reflect.Slice, reflect.Array:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			writeStringBytes(buf, byteSliceOf(v))
			return nil
		}
		buf.WriteByte('l')
		for i := 0; i < v.Len(); i++ {
			if err := marshalValue(buf, v.Index(i)); err != nil {
				return err
			}
		}
		buf.WriteByte('e')
		return nil

	case reflect.Map:
		return marshalMap(buf, v)

	case reflect.Struct:
		return marshalStruct(buf, v)

	case reflect.Ptr, reflect.Interface:
		if v.IsNil() {
			return &MarshalTypeError{Type: v.Type()}
		}
		return marshalValue(buf, v.Elem())

	default:
		return &MarshalTypeError{Type: v.Type()}
	}
}

func marshalMap(buf *bytes.Buffer, v reflect.Value) error {
	if v.Type().Key().Kind() != reflect.String {
		return &MarshalTypeError{Type: v.Type()}
	}
	keys := make([]string, 0, v.Len())
	iter := v.MapRange()
	for iter.Next() {
		keys = append(keys, iter.Key().String())
	}
	sort.Strings(keys)

	buf.WriteByte('d')
	for _, k := range keys {
		elem := v.MapIndex(reflect.ValueOf(k).Convert(v.Type().Key()))
		if isNilOptional(elem) {
			continue // absence encodes absence, same as struct fields
		}
		writeStringBytes(buf, []byte(k))
		if err := marshalValue(buf, elem); err != nil {
			return err
		}
	}
	buf.WriteByte('e')
	return nil
}

// marshalStruct runs the two-phase field protocol: serialize every present
// field into its own buffer keyed by encoded name, then sort the names and
// concatenate. This makes the wire form independent of declaration order.
func marshalStruct(buf *bytes.Buffer, v reflect.Value) error {
	t := v.Type()
	fields := make(map[string][]byte, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, ok := fieldName(f)
		if !ok {
			continue
		}
		fv := v.Field(i)
		if isNilOptional(fv) {
			continue
		}
		var fbuf bytes.Buffer
		if err := marshalValue(&fbuf, fv); err != nil {
			return err
		}
		fields[name] = fbuf.Bytes()
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	buf.WriteByte('d')
	for _, name := range names {
		writeStringBytes(buf, []byte(name))
		buf.Write(fields[name])
	}
	buf.WriteByte('e')
	return nil
}

// isNilOptional reports whether v is a nil value of a kind whose absence is
// representable: nil pointers, slices and maps are omitted rather than
// encoded, matching the decode side, which leaves those kinds nil when the
// key is absent. A non-nil empty slice or map still encodes as "le"/"de".
func isNilOptional(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Ptr, reflect.Slice, reflect.Map:
		return v.IsNil()
	}
	return false
}

// fieldName resolves the encoded key for a struct field. Unexported fields
// and fields tagged "-" are skipped.
func fieldName(f reflect.StructField) (string, bool) {
	if f.PkgPath != "" {
		return "", false
	}
	tag := f.Tag.Get("bencode")
	if tag == "-" {
		return "", false
	}
	if tag != "" {
		return tag, true
	}
	return f.Name, true
}

func writeInt(buf *bytes.Buffer, n int64) {
	buf.WriteByte('i')
	buf.WriteString(strconv.FormatInt(n, 10))
	buf.WriteByte('e')
}

func byteSliceOf(v reflect.Value) []byte {
	if v.Kind() == reflect.Slice {
		return v.Bytes()
	}
	b := make([]byte, v.Len())
	reflect.Copy(reflect.ValueOf(b), v)
	return b
}
