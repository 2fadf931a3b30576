// Package bencode implements a strict codec for the bencode wire format used
// by BitTorrent metainfo files and protocol messages. The parser is a
// validator, not a lenient reader: only canonical form is accepted (no
// leading zeros, no negative zero, dict keys strictly ascending in byte
// order), and encoding always produces canonical form.
//
// Components:
//   - Value: the four-variant decoded tree (integer, byte string, list,
//     dict) with fail-fast typed accessors.
//   - Reader: streaming parser; NextValue reads one top-level value at a
//     time from an io.Reader.
//   - Encode: serializes a Value back to canonical bytes, re-sorting dict
//     keys defensively.
//   - Marshal/Unmarshal: a reflection-driven typed adapter that maps Go
//     structs, slices, maps and primitives onto the same grammar without an
//     intermediate Value tree. Optional struct fields (pointers) are omitted
//     when nil; absence encodes absence.
//
// Both decode paths enforce the same canonical-form rules and report
// failures through the typed errors in this package.
//
// Everything is synchronous and allocation-only. Separate operations share
// no state and are safe to run concurrently; a single Reader or a shared
// input cursor is not.
package bencode
