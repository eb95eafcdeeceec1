package table

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/series"
)

// FormatValue renders v in its shortest round-trip form, always with a decimal
// point so integral values still read as floating point ("45000000.0").
func FormatValue(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eEnN") {
		s += ".0"
	}

	return s
}

// EncodeCSV writes s as comma-separated rows with a Year,Population header.
func EncodeCSV(w io.Writer, s series.Series) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{YearColumn, ValueColumn}); err != nil {
		return err
	}

	row := make([]string, 2)
	for _, p := range s {
		row[0] = strconv.Itoa(p.Year)
		row[1] = FormatValue(p.Value)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()

	return cw.Error()
}

// DecodeCSV parses a table written by EncodeCSV.
func DecodeCSV(r io.Reader) (series.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("missing header: %w", errs.ErrMalformedTable)
		}
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	var out series.Series
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
		}

		sample, err := parseRow(rec[0], rec[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, sample)
	}

	return out, nil
}

func checkHeader(header []string) error {
	if len(header) != 2 || header[0] != YearColumn || header[1] != ValueColumn {
		return fmt.Errorf("header %q, want %s,%s: %w", header, YearColumn, ValueColumn, errs.ErrMalformedTable)
	}

	return nil
}

func parseRow(year, value string) (series.Sample, error) {
	y, err := strconv.Atoi(strings.TrimSpace(year))
	if err != nil {
		return series.Sample{}, fmt.Errorf("year %q: %w", year, errs.ErrMalformedTable)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return series.Sample{}, fmt.Errorf("value %q: %w", value, errs.ErrMalformedTable)
	}

	return series.Sample{Year: y, Value: v}, nil
}
