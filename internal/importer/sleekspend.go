package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sleekspend/sleekspend/internal/export"
)

// SleekspendParser reads the CSV written by export.WriteCSV.
type SleekspendParser struct{}

const (
	ssNumFields   = 5
	ssColID       = 0
	ssColDate     = 1
	ssColAmount   = 2
	ssColCategory = 3
	ssColDesc     = 4
)

// Format returns the parser name.
func (p *SleekspendParser) Format() string { return "sleekspend" }

// Parse reads an export CSV. The header must match export.Header.
func (p *SleekspendParser) Parse(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = ssNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading sleekspend CSV: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}
	if !slices.Equal(records[0], strings.Split(export.Header, ",")) {
		return nil, fmt.Errorf("unexpected header %q", strings.Join(records[0], ","))
	}

	var rows []Row
	for i, rec := range records[1:] {
		date, err := time.ParseInLocation(export.DateFormat, rec[ssColDate], time.Local)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing date %q: %w", i+2, rec[ssColDate], err)
		}
		amount, err := decimal.NewFromString(rec[ssColAmount])
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing amount %q: %w", i+2, rec[ssColAmount], err)
		}
		rows = append(rows, Row{
			ID:          rec[ssColID],
			Date:        date,
			Amount:      amount,
			Description: rec[ssColDesc],
			Category:    rec[ssColCategory],
		})
	}
	return rows, nil
}
