package metainfo

import (
	"os"

	"github.com/unkn0wn-root/bencode"
	"github.com/unkn0wn-root/bencode/codec"
)

const defaultMaxSize = 16 << 20 // .torrent files are small; anything bigger is suspect

// Options tune loading. The zero value is ready to use.
type Options struct {
	Logger  bencode.Logger // nil disables logging
	MaxSize int            // max accepted file size in bytes; 0 => 16 MiB, <0 => unlimited
}

// Load reads and parses the .torrent file at path.
func Load(path string, opts Options) (*MetaInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadBytes(data, opts)
}

// LoadBytes parses a .torrent payload, enforcing the size limit, and fills
// in the info-hash.
func LoadBytes(data []byte, opts Options) (*MetaInfo, error) {
	log := coalesce[bencode.Logger](opts.Logger, bencode.NopLogger{})
	maxSize := coalesce(opts.MaxSize, defaultMaxSize)

	c := codec.LimitCodec[MetaInfo]{
		Inner:     codec.Bencode[MetaInfo]{},
		MaxDecode: maxSize,
	}
	mi, err := c.Decode(data)
	if err != nil {
		log.Error("metainfo decode failed", bencode.Fields{"size": len(data), "err": err})
		return nil, err
	}

	mi.InfoHash, err = infoHash(data)
	if err != nil {
		return nil, err
	}

	log.Debug("metainfo loaded", bencode.Fields{
		"name":      mi.Info.Name,
		"size":      len(data),
		"files":     mi.NumFiles(),
		"pieces":    mi.PieceCount(),
		"info_hash": mi.HexInfoHash(),
	})
	return &mi, nil
}

// coalesce returns def when v is the zero value of T - otherwise v.
func coalesce[T comparable](v, def T) T {
	var zero T
	if v == zero {
		return def
	}
	return v
}
