package compress

import (
	"fmt"
	"strings"

	"github.com/arloliu/phasecurve/format"
)

// Compressor compresses a complete payload.
type Compressor interface {
	// Compress returns the compressed form of data. The input is not modified.
	Compress(data []byte) ([]byte, error)
}

// Decompressor restores a payload produced by the matching Compressor.
type Decompressor interface {
	// Decompress returns the original data, or an error if data is corrupted or
	// was produced by a different algorithm.
	Decompress(data []byte) ([]byte, error)
}

// Codec combines both directions of one algorithm.
type Codec interface {
	Compressor
	Decompressor
	// Type returns the compression algorithm.
	Type() format.CompressionType
}

// Stats describes one compression operation.
type Stats struct {
	Algorithm      format.CompressionType
	OriginalSize   int
	CompressedSize int
}

// Ratio returns compressed size / original size, or 0 for empty input.
func (s Stats) Ratio() float64 {
	if s.OriginalSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.OriginalSize)
}

// SpaceSavings returns the space saved as a percentage.
func (s Stats) SpaceSavings() float64 {
	return (1.0 - s.Ratio()) * 100.0
}

// CompressWithStats compresses data with c and reports the sizes.
func CompressWithStats(c Codec, data []byte) ([]byte, Stats, error) {
	out, err := c.Compress(data)
	if err != nil {
		return nil, Stats{}, fmt.Errorf("%s compression failed: %w", c.Type(), err)
	}

	return out, Stats{Algorithm: c.Type(), OriginalSize: len(data), CompressedSize: len(out)}, nil
}

var builtinCodecs = map[format.CompressionType]Codec{
	format.CompressionNone: NewNoOpCompressor(),
	format.CompressionZstd: NewZstdCompressor(),
	format.CompressionS2:   NewS2Compressor(),
	format.CompressionLZ4:  NewLZ4Compressor(),
}

// GetCodec returns the built-in Codec for the compression type.
func GetCodec(compressionType format.CompressionType) (Codec, error) {
	if codec, ok := builtinCodecs[compressionType]; ok {
		return codec, nil
	}

	return nil, fmt.Errorf("unsupported compression type: %s", compressionType)
}

var extensions = []struct {
	ext string
	ct  format.CompressionType
}{
	{ext: ".zst", ct: format.CompressionZstd},
	{ext: ".sz", ct: format.CompressionS2},
	{ext: ".lz4", ct: format.CompressionLZ4},
}

// Extension returns the file suffix of the compression type, "" for none.
func Extension(compressionType format.CompressionType) string {
	for _, e := range extensions {
		if e.ct == compressionType {
			return e.ext
		}
	}

	return ""
}

// FromPath detects the compression of a file from its suffix (case-insensitive).
//
// Returns the compression type and the path with the compression suffix removed.
// Paths without a known suffix yield format.CompressionNone and the path unchanged.
func FromPath(path string) (format.CompressionType, string) {
	lower := strings.ToLower(path)
	for _, e := range extensions {
		if strings.HasSuffix(lower, e.ext) {
			return e.ct, path[:len(path)-len(e.ext)]
		}
	}

	return format.CompressionNone, path
}
