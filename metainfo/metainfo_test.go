package metainfo

import (
	"bytes"
	"crypto/sha1"
	"testing"

	"github.com/unkn0wn-root/bencode"
)

func singleFileTorrent(t *testing.T) []byte {
	t.Helper()
	length := int64(1024)
	comment := "for testing"
	mi := MetaInfo{
		Announce:     "http://tracker.example/announce",
		Comment:      &comment,
		CreationDate: ptr(int64(1700000000)),
		Info: Info{
			Name:        "payload.bin",
			PieceLength: 512,
			Pieces:      bytes.Repeat([]byte{0xab}, sha1.Size*2),
			Length:      &length,
		},
	}
	data, err := bencode.Marshal(mi)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	return data
}

func ptr[T any](v T) *T { return &v }

func TestLoadBytesSingleFile(t *testing.T) {
	data := singleFileTorrent(t)
	mi, err := LoadBytes(data, Options{})
	if err != nil {
		t.Fatalf("LoadBytes error: %v", err)
	}

	if mi.Announce != "http://tracker.example/announce" {
		t.Fatalf("announce = %q", mi.Announce)
	}
	if mi.Comment == nil || *mi.Comment != "for testing" {
		t.Fatalf("comment = %v", mi.Comment)
	}
	if mi.Encoding != nil {
		t.Fatalf("absent optional field should stay nil")
	}
	if mi.Info.Name != "payload.bin" || mi.Info.PieceLength != 512 {
		t.Fatalf("info = %#v", mi.Info)
	}
	if mi.TotalLength() != 1024 || mi.NumFiles() != 1 || mi.PieceCount() != 2 {
		t.Fatalf("derived values: total=%d files=%d pieces=%d",
			mi.TotalLength(), mi.NumFiles(), mi.PieceCount())
	}
}

func TestInfoHashMatchesRawInfoDict(t *testing.T) {
	data := singleFileTorrent(t)
	mi, err := LoadBytes(data, Options{})
	if err != nil {
		t.Fatalf("LoadBytes error: %v", err)
	}

	root, err := bencode.DecodeValue(data)
	if err != nil {
		t.Fatalf("DecodeValue error: %v", err)
	}
	want := sha1.Sum(bencode.Encode(root.Get("info")))
	if mi.InfoHash != want {
		t.Fatalf("info hash %x, want %x", mi.InfoHash, want)
	}
	if len(mi.HexInfoHash()) != 40 {
		t.Fatalf("hex hash %q", mi.HexInfoHash())
	}
}

func TestInfoHashCoversUnmodeledKeys(t *testing.T) {
	// Two torrents whose info dicts differ only in a key this package does
	// not model must still hash differently.
	a := []byte("d8:announce1:a4:infod6:lengthi0e4:name1:x12:piece lengthi1e6:pieces0:ee")
	b := []byte("d8:announce1:a4:infod5:extrai1e6:lengthi0e4:name1:x12:piece lengthi1e6:pieces0:ee")

	ma, err := LoadBytes(a, Options{})
	if err != nil {
		t.Fatalf("LoadBytes(a) error: %v", err)
	}
	mb, err := LoadBytes(b, Options{})
	if err != nil {
		t.Fatalf("LoadBytes(b) error: %v", err)
	}
	if ma.InfoHash == mb.InfoHash {
		t.Fatalf("unmodeled info keys must change the hash")
	}
}

func TestLoadBytesMultiFile(t *testing.T) {
	mi := MetaInfo{
		Announce: "udp://tracker.example:6969",
		Info: Info{
			Name:        "album",
			PieceLength: 256,
			Pieces:      bytes.Repeat([]byte{0x01}, sha1.Size),
			Files: []File{
				{Length: 100, Path: []string{"cd1", "a.flac"}},
				{Length: 200, Path: []string{"cd2", "b.flac"}},
			},
		},
	}
	data, err := bencode.Marshal(mi)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}
	got, err := LoadBytes(data, Options{})
	if err != nil {
		t.Fatalf("LoadBytes error: %v", err)
	}
	if got.NumFiles() != 2 || got.TotalLength() != 300 {
		t.Fatalf("files=%d total=%d", got.NumFiles(), got.TotalLength())
	}
	if got.Info.Files[1].Path[0] != "cd2" {
		t.Fatalf("files = %#v", got.Info.Files)
	}
}

func TestLoadBytesSizeLimit(t *testing.T) {
	data := singleFileTorrent(t)
	if _, err := LoadBytes(data, Options{MaxSize: 8}); err == nil {
		t.Fatalf("oversized payload should be rejected")
	}
	// Negative disables the limit entirely.
	if _, err := LoadBytes(data, Options{MaxSize: -1}); err != nil {
		t.Fatalf("unlimited load failed: %v", err)
	}
}

func TestLoadBytesRejectsGarbage(t *testing.T) {
	if _, err := LoadBytes([]byte("not bencode"), Options{}); err == nil {
		t.Fatalf("garbage should not load")
	}
	// Valid bencode that is not a metainfo dict.
	if _, err := LoadBytes([]byte("de"), Options{}); err == nil {
		t.Fatalf("empty dict lacks required fields")
	}
}
