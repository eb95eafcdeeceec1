// Package table persists a series as a flat two-column table and reads it back.
//
// Every table has the header Year,Population followed by one row per sample in
// series order, duplicated boundary years included. The file format is selected
// from the destination path:
//
//   - .csv: comma-separated text
//   - .csv.zst, .csv.sz, .csv.lz4: comma-separated text compressed with the
//     matching codec from the compress package
//   - .xlsx: an Excel workbook with one sheet (and the same compression suffixes)
//
// Values are written in the shortest decimal form that parses back to the same
// float64, so a write followed by a read reproduces the series exactly.
//
// Write creates missing parent directories and replaces the destination
// atomically: a failed write never leaves a truncated table behind.
package table
