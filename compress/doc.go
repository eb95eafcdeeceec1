// Package compress provides the codecs used for compressed table files.
//
// Each codec produces the standard container of its algorithm so the files can be
// read by the usual command line tools:
//
//   - Zstd (.zst): a Zstandard frame (klauspost/compress, or valyala/gozstd when
//     built with cgo and the gozstd tag)
//   - S2 (.sz): the S2/Snappy framed stream
//   - LZ4 (.lz4): the LZ4 frame format
//   - None: data is passed through unchanged
//
// # Usage
//
//	ct, base := compress.FromPath("data/population.csv.zst") // CompressionZstd, "data/population.csv"
//	codec, err := compress.GetCodec(ct)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(csvBytes)
//
// Codecs are stateless values and safe for concurrent use.
package compress
