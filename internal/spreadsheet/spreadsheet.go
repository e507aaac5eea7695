// Package spreadsheet reads venue input workbooks and writes the
// enriched five-column output workbook.
package spreadsheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/UnknownOlympus/waypoint/internal/models"
	"github.com/xuri/excelize/v2"
)

// Common errors for spreadsheet handling.
var (
	ErrNoSheets      = errors.New("no sheets found in spreadsheet")
	ErrEmptyFile     = errors.New("spreadsheet has no rows")
	ErrNoColumns     = errors.New("cannot identify city and venue columns")
	ErrRowMismatch   = errors.New("row count does not match result count")
	ErrNoDataColumns = errors.New("spreadsheet has no header cells")
)

// outputHeaders is the fixed five-column layout of the enriched workbook.
var outputHeaders = []string{"city", "venue", "address", "google_direct_url", "google_embed_url"}

// Read opens the first sheet of an .xlsx workbook and returns one Row per
// data line, with the city and venue columns identified by header
// heuristics. Lines where both identified cells are empty are skipped.
func Read(path string) ([]models.Row, error) {
	file, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer file.Close()

	sheetName := file.GetSheetName(0)
	if sheetName == "" {
		return nil, ErrNoSheets
	}

	rows, err := file.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyFile
	}

	cityIdx, venueIdx, err := detectColumns(rows[0])
	if err != nil {
		return nil, err
	}

	var out []models.Row
	for _, row := range rows[1:] {
		city := cellAt(row, cityIdx)
		venue := cellAt(row, venueIdx)
		if strings.TrimSpace(city) == "" && strings.TrimSpace(venue) == "" {
			continue
		}
		out = append(out, models.Row{City: city, Venue: venue})
	}

	return out, nil
}

// Write saves the enriched workbook: a header row followed by one line
// per input row with the outcome values taken verbatim (empty strings
// where unresolved).
func Write(path string, rows []models.Row, results models.BatchResult) error {
	if len(rows) != len(results) {
		return fmt.Errorf("%w: %d rows, %d results", ErrRowMismatch, len(rows), len(results))
	}

	file := excelize.NewFile()
	defer file.Close()

	sheetName := file.GetSheetName(0)

	for col, header := range outputHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to build cell name: %w", err)
		}
		if err = file.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	for i, row := range rows {
		outcome := results[i]
		values := []string{row.City, row.Venue, outcome.Address, outcome.DirectURL, outcome.EmbedURL}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, i+2)
			if err != nil {
				return fmt.Errorf("failed to build cell name: %w", err)
			}
			if err = file.SetCellValue(sheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save spreadsheet: %w", err)
	}

	return nil
}

// detectColumns identifies the city and venue columns by header text,
// falling back to the first and second columns. The heuristics mirror
// the headers seen in real inputs: Chinese city/venue markers and the
// English "city"/"name".
func detectColumns(headers []string) (int, int, error) {
	if len(headers) == 0 {
		return 0, 0, ErrNoDataColumns
	}

	cityIdx, venueIdx := -1, -1
	for i, header := range headers {
		lower := strings.ToLower(header)
		if cityIdx == -1 &&
			(strings.Contains(header, "城") || strings.Contains(header, "市") || strings.Contains(lower, "city")) {
			cityIdx = i
		}
		if venueIdx == -1 &&
			(strings.Contains(header, "景") || strings.Contains(header, "点") ||
				strings.Contains(header, "店") || strings.Contains(header, "地点") ||
				strings.Contains(header, "场所") || strings.Contains(lower, "name")) {
			venueIdx = i
		}
	}

	if cityIdx == -1 {
		cityIdx = 0
	}
	if venueIdx == -1 {
		if len(headers) < 2 {
			return 0, 0, fmt.Errorf("%w: available columns %v", ErrNoColumns, headers)
		}
		venueIdx = 1
	}

	return cityIdx, venueIdx, nil
}

// cellAt returns the cell at idx, tolerating the ragged rows excelize
// produces when trailing cells are empty.
func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
