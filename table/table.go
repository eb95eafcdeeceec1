package table

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arloliu/phasecurve/compress"
	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/format"
	"github.com/arloliu/phasecurve/internal/options"
	"github.com/arloliu/phasecurve/series"
)

// Column names of the table header.
const (
	YearColumn  = "Year"
	ValueColumn = "Population"
)

// DefaultSheetName is the worksheet name used for xlsx tables.
const DefaultSheetName = "Population"

// Info describes a written table.
type Info struct {
	Path        string
	Format      format.TableFormat
	Compression format.CompressionType
	Rows        int
	// Bytes is the size of the file on disk.
	Bytes int
	// Fingerprint is the xxHash64 of the written samples.
	Fingerprint uint64
}

type writerConfig struct {
	sheet string
	perm  fs.FileMode
}

// Option configures Write.
type Option = options.Option[*writerConfig]

// WithSheetName sets the worksheet name of xlsx tables.
func WithSheetName(name string) Option {
	return options.New(func(cfg *writerConfig) error {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("empty sheet name: %w", errs.ErrInvalidConfig)
		}
		cfg.sheet = name

		return nil
	})
}

// WithPerm sets the permission bits of the written file. Default 0644.
func WithPerm(perm fs.FileMode) Option {
	return options.NoError(func(cfg *writerConfig) {
		cfg.perm = perm
	})
}

// FormatOf resolves the table format and compression of path.
func FormatOf(path string) (format.TableFormat, format.CompressionType, error) {
	ct, base := compress.FromPath(path)
	switch strings.ToLower(filepath.Ext(base)) {
	case ".csv":
		return format.TableCSV, ct, nil
	case ".xlsx":
		return format.TableXLSX, ct, nil
	default:
		return 0, 0, fmt.Errorf("table %s: %w", path, errs.ErrUnsupportedFormat)
	}
}

// Encode serializes s in the given format, uncompressed.
func Encode(tf format.TableFormat, s series.Series, sheet string) ([]byte, error) {
	var buf bytes.Buffer
	switch tf {
	case format.TableCSV:
		if err := EncodeCSV(&buf, s); err != nil {
			return nil, err
		}
	case format.TableXLSX:
		if err := EncodeXLSX(&buf, s, sheet); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("table format %s: %w", tf, errs.ErrUnsupportedFormat)
	}

	return buf.Bytes(), nil
}

// Decode parses data in the given format, uncompressed.
func Decode(tf format.TableFormat, data []byte) (series.Series, error) {
	switch tf {
	case format.TableCSV:
		return DecodeCSV(bytes.NewReader(data))
	case format.TableXLSX:
		return DecodeXLSX(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("table format %s: %w", tf, errs.ErrUnsupportedFormat)
	}
}

// Write stores s at path, creating parent directories as needed.
//
// Parameters:
//   - path: Destination; the extension selects format and compression
//   - s: Samples to store, in order
//   - opts: Writer options (WithSheetName, WithPerm)
//
// Returns:
//   - Info: Details of the written file
//   - error: errs.ErrUnsupportedFormat for unknown extensions, or an I/O error
func Write(path string, s series.Series, opts ...Option) (Info, error) {
	cfg := writerConfig{sheet: DefaultSheetName, perm: 0o644}
	if err := options.Apply(&cfg, opts...); err != nil {
		return Info{}, err
	}

	tf, ct, err := FormatOf(path)
	if err != nil {
		return Info{}, err
	}

	data, err := Encode(tf, s, cfg.sheet)
	if err != nil {
		return Info{}, fmt.Errorf("encode table %s: %w", path, err)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return Info{}, err
	}
	data, err = codec.Compress(data)
	if err != nil {
		return Info{}, fmt.Errorf("compress table %s: %w", path, err)
	}

	if err := writeFile(path, data, cfg.perm); err != nil {
		return Info{}, err
	}

	return Info{
		Path:        path,
		Format:      tf,
		Compression: ct,
		Rows:        len(s),
		Bytes:       len(data),
		Fingerprint: s.Fingerprint(),
	}, nil
}

// Read loads the table at path.
func Read(path string) (series.Series, error) {
	tf, ct, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	codec, err := compress.GetCodec(ct)
	if err != nil {
		return nil, err
	}
	data, err = codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress table %s: %w: %w", path, errs.ErrMalformedTable, err)
	}

	s, err := Decode(tf, data)
	if err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}

	return s, nil
}

// writeFile creates the parent directory and replaces path through a temporary
// file in the same directory.
func writeFile(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temporary file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}

	return nil
}
