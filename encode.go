package bencode

import (
	"bytes"
	"sort"
	"strconv"
)

// Encode serializes v to canonical bencode bytes. It is total for any
// structurally valid Value and its output re-parses to an Equal value.
func Encode(v *Value) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.Bytes()
}

func encodeValue(buf *bytes.Buffer, v *Value) {
	switch v.kind {
	case KindInteger:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(v.num, 10))
		buf.WriteByte('e')
	case KindString:
		writeStringBytes(buf, v.str)
	case KindList:
		buf.WriteByte('l')
		for _, e := range v.list {
			encodeValue(buf, e)
		}
		buf.WriteByte('e')
	case KindDict:
		// Keys are re-sorted here regardless of storage order; the encoder
		// does not rely on the parser's write-time ordering invariant.
		keys := make([]string, 0, len(v.dict))
		for k := range v.dict {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		buf.WriteByte('d')
		for _, k := range keys {
			writeStringBytes(buf, []byte(k))
			encodeValue(buf, v.dict[k])
		}
		buf.WriteByte('e')
	default:
		panic("bencode: Encode called on invalid value")
	}
}

func writeStringBytes(buf *bytes.Buffer, b []byte) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(':')
	buf.Write(b)
}
