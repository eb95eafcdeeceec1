package compress

import "github.com/arloliu/phasecurve/format"

// ZstdCompressor produces standard Zstandard frames.
//
// The implementation is selected at build time: the pure-Go klauspost/compress
// encoder by default, or the cgo binding of the reference library when built with
// cgo and the gozstd tag.
type ZstdCompressor struct{}

var _ Codec = (*ZstdCompressor)(nil)

// NewZstdCompressor creates a new Zstd codec.
func NewZstdCompressor() ZstdCompressor {
	return ZstdCompressor{}
}

// Type returns format.CompressionZstd.
func (c ZstdCompressor) Type() format.CompressionType {
	return format.CompressionZstd
}
