package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/arloliu/phasecurve/errs"
	"github.com/arloliu/phasecurve/series"
)

// EncodeXLSX writes s to a workbook with a single sheet.
func EncodeXLSX(w io.Writer, s series.Series, sheet string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = DefaultSheetName
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return err
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return err
	}
	if err := sw.SetRow("A1", []any{YearColumn, ValueColumn}); err != nil {
		return err
	}
	for i, p := range s {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, []any{p.Year, p.Value}); err != nil {
			return err
		}
	}
	if err := sw.Flush(); err != nil {
		return err
	}

	_, err = f.WriteTo(w)

	return err
}

// DecodeXLSX parses the first sheet of a workbook written by EncodeXLSX.
func DecodeXLSX(r io.Reader) (series.Series, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrMalformedTable, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header: %w", errs.ErrMalformedTable)
	}
	if err := checkHeader(rows[0]); err != nil {
		return nil, err
	}

	out := make(series.Series, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) != 2 {
			return nil, fmt.Errorf("row %d: %d cells: %w", i+2, len(row), errs.ErrMalformedTable)
		}
		sample, err := parseRow(row[0], row[1])
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		out = append(out, sample)
	}

	return out, nil
}
