package bencode

import (
	"bytes"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind identifies which of the four bencode variants a Value holds.
type Kind int

const (
	KindInteger Kind = iota + 1
	KindString
	KindList
	KindDict
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindString:
		return "string"
	case KindList:
		return "list"
	case KindDict:
		return "dict"
	default:
		return "invalid"
	}
}

// Value is a single decoded bencode value: an integer, a byte string, a list,
// or a dict. Values form a tree with exclusive ownership of their children and
// are treated as immutable once built.
//
// Typed accessors panic when called on the wrong variant. That is a contract
// violation by the caller, not a recoverable condition; check the variant
// first or rely on the parser's structural validation.
type Value struct {
	kind Kind
	num  int64
	str  []byte
	list []*Value
	dict map[string]*Value
}

// NewInteger returns an integer Value.
func NewInteger(n int64) *Value {
	return &Value{kind: KindInteger, num: n}
}

// NewString returns a byte-string Value. The bytes need not be valid UTF-8.
// The slice is not copied; callers must not mutate it afterwards.
func NewString(b []byte) *Value {
	return &Value{kind: KindString, str: b}
}

// NewText returns a byte-string Value holding the bytes of s.
func NewText(s string) *Value {
	return &Value{kind: KindString, str: []byte(s)}
}

// NewList returns a list Value with the given elements in order.
func NewList(elems ...*Value) *Value {
	return &Value{kind: KindList, list: elems}
}

// NewDict returns a dict Value with the given entries. Storage order is
// irrelevant; the wire form and the debug rendering always sort keys in
// ascending byte order.
func NewDict(entries map[string]*Value) *Value {
	d := make(map[string]*Value, len(entries))
	for k, v := range entries {
		d[k] = v
	}
	return &Value{kind: KindDict, dict: d}
}

// Kind reports the variant held by v.
func (v *Value) Kind() Kind { return v.kind }

func (v *Value) IsInteger() bool { return v.kind == KindInteger }
func (v *Value) IsString() bool  { return v.kind == KindString }
func (v *Value) IsList() bool    { return v.kind == KindList }
func (v *Value) IsDict() bool    { return v.kind == KindDict }

func (v *Value) mustKind(k Kind, op string) {
	if v.kind != k {
		panic("bencode: " + op + " called on " + v.kind.String() + " value")
	}
}

// Integer returns the integer held by v. Panics if v is not an integer.
func (v *Value) Integer() int64 {
	v.mustKind(KindInteger, "Integer")
	return v.num
}

// Bytes returns the raw bytes held by v. Panics if v is not a string.
// Callers must not mutate the returned slice.
func (v *Value) Bytes() []byte {
	v.mustKind(KindString, "Bytes")
	return v.str
}

// Text returns the byte string as a Go string, replacing invalid UTF-8
// sequences with U+FFFD. Panics if v is not a string.
func (v *Value) Text() string {
	v.mustKind(KindString, "Text")
	return strings.ToValidUTF8(string(v.str), "�")
}

// Index returns the i-th list element. Panics if v is not a list or i is out
// of range.
func (v *Value) Index(i int) *Value {
	v.mustKind(KindList, "Index")
	return v.list[i]
}

// Get returns the value stored under key, or nil when the key is absent.
// Panics if v is not a dict.
func (v *Value) Get(key string) *Value {
	v.mustKind(KindDict, "Get")
	return v.dict[key]
}

// Keys returns the dict keys in ascending byte order. Panics if v is not a
// dict.
func (v *Value) Keys() []string {
	v.mustKind(KindDict, "Keys")
	keys := make([]string, 0, len(v.dict))
	for k := range v.dict {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the length of v: byte count for strings, element count for
// lists, pair count for dicts, and 1 for integers. The integer case is a
// compatibility quirk kept on purpose; an integer counts as one value, not
// as its digit count.
func (v *Value) Len() int {
	switch v.kind {
	case KindInteger:
		return 1
	case KindString:
		return len(v.str)
	case KindList:
		return len(v.list)
	case KindDict:
		return len(v.dict)
	default:
		panic("bencode: Len called on invalid value")
	}
}

// IsEmpty reports whether Len() == 0.
func (v *Value) IsEmpty() bool { return v.Len() == 0 }

// Equal reports deep structural equality. List order matters; dict storage
// order does not.
func (v *Value) Equal(o *Value) bool {
	if v == nil || o == nil {
		return v == o
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindInteger:
		return v.num == o.num
	case KindString:
		return bytes.Equal(v.str, o.str)
	case KindList:
		if len(v.list) != len(o.list) {
			return false
		}
		for i := range v.list {
			if !v.list[i].Equal(o.list[i]) {
				return false
			}
		}
		return true
	case KindDict:
		if len(v.dict) != len(o.dict) {
			return false
		}
		for k, vv := range v.dict {
			ov, ok := o.dict[k]
			if !ok || !vv.Equal(ov) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders v for debugging. Byte strings that are valid UTF-8 print
// quoted; anything else prints as a "[N bytes]" placeholder. Dict entries
// always print in ascending key byte order.
func (v *Value) String() string {
	var sb strings.Builder
	v.render(&sb)
	return sb.String()
}

func (v *Value) render(sb *strings.Builder) {
	switch v.kind {
	case KindInteger:
		sb.WriteString(strconv.FormatInt(v.num, 10))
	case KindString:
		sb.WriteString(maybeString(v.str, true))
	case KindList:
		sb.WriteByte('[')
		for i, e := range v.list {
			if i > 0 {
				sb.WriteString(", ")
			}
			e.render(sb)
		}
		sb.WriteByte(']')
	case KindDict:
		sb.WriteByte('{')
		for i, k := range v.Keys() {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(maybeString([]byte(k), false))
			sb.WriteString(": ")
			v.dict[k].render(sb)
		}
		sb.WriteByte('}')
	}
}

func maybeString(b []byte, quoted bool) string {
	if !utf8.Valid(b) {
		return "[" + strconv.Itoa(len(b)) + " bytes]"
	}
	if quoted {
		return `"` + string(b) + `"`
	}
	return string(b)
}

// Interface converts the tree to plain Go values: int64 for integers, string
// for UTF-8 byte strings ([]byte otherwise), []any for lists and
// map[string]any for dicts. Useful for handing a decoded tree to another
// serializer (JSON, CBOR, msgpack).
func (v *Value) Interface() any {
	switch v.kind {
	case KindInteger:
		return v.num
	case KindString:
		if utf8.Valid(v.str) {
			return string(v.str)
		}
		return append([]byte(nil), v.str...)
	case KindList:
		out := make([]any, len(v.list))
		for i, e := range v.list {
			out[i] = e.Interface()
		}
		return out
	case KindDict:
		out := make(map[string]any, len(v.dict))
		for k, e := range v.dict {
			out[k] = e.Interface()
		}
		return out
	default:
		return nil
	}
}
