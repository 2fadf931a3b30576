// Package metainfo reads BitTorrent metainfo (.torrent) files on top of the
// bencode typed adapter. Optional dictionary entries map to nil-able Go
// fields and are omitted from re-encoded output when absent.
package metainfo

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"

	"github.com/unkn0wn-root/bencode"
)

// Info is the "info" dictionary of a metainfo file. Single-file torrents set
// Length; multi-file torrents set Files.
type Info struct {
	Name        string `bencode:"name"`
	PieceLength int64  `bencode:"piece length"`
	Pieces      []byte `bencode:"pieces"`
	Length      *int64 `bencode:"length"`
	Files       []File `bencode:"files"`
	Private     *int64 `bencode:"private"`
}

// File is one entry of a multi-file torrent.
type File struct {
	Length int64    `bencode:"length"`
	Path   []string `bencode:"path"`
}

// MetaInfo is a parsed .torrent file.
type MetaInfo struct {
	Announce     string     `bencode:"announce"`
	AnnounceList [][]string `bencode:"announce-list"`
	Comment      *string    `bencode:"comment"`
	CreatedBy    *string    `bencode:"created by"`
	CreationDate *int64     `bencode:"creation date"`
	Encoding     *string    `bencode:"encoding"`
	Info         Info       `bencode:"info"`

	// InfoHash is the SHA-1 of the raw bencoded info dictionary, filled in
	// by LoadBytes. It is not part of the wire form.
	InfoHash [20]byte `bencode:"-"`
}

// HexInfoHash returns the info-hash as lowercase hex.
func (mi *MetaInfo) HexInfoHash() string {
	return hex.EncodeToString(mi.InfoHash[:])
}

// TotalLength returns the summed payload size: Length for single-file
// torrents, the sum of file lengths otherwise.
func (mi *MetaInfo) TotalLength() int64 {
	if mi.Info.Length != nil {
		return *mi.Info.Length
	}
	var total int64
	for _, f := range mi.Info.Files {
		total += f.Length
	}
	return total
}

// PieceCount returns the number of 20-byte piece hashes.
func (mi *MetaInfo) PieceCount() int {
	return len(mi.Info.Pieces) / sha1.Size
}

// NumFiles returns 1 for single-file torrents, the file count otherwise.
func (mi *MetaInfo) NumFiles() int {
	if mi.Info.Length != nil {
		return 1
	}
	return len(mi.Info.Files)
}

// infoHash recomputes the SHA-1 over the canonical re-encoding of the "info"
// value inside data. The value tree is used rather than the typed struct so
// that keys this package does not model still contribute to the hash.
func infoHash(data []byte) ([20]byte, error) {
	root, err := bencode.DecodeValue(data)
	if err != nil {
		return [20]byte{}, err
	}
	if !root.IsDict() {
		return [20]byte{}, fmt.Errorf("metainfo: top-level value is a %s, want dict", root.Kind())
	}
	info := root.Get("info")
	if info == nil {
		return [20]byte{}, fmt.Errorf("metainfo: no info dictionary")
	}
	return sha1.Sum(bencode.Encode(info)), nil
}
