// Package export writes expense lists as CSV or Excel workbooks.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/sleekspend/sleekspend/internal/model"
)

// Formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Header is the CSV export header.
const Header = "id,date,amount,category,description"

// DateFormat is the local date-time layout of the date column.
const DateFormat = "2006-01-02 15:04:05"

const (
	numFields      = 5
	colID          = 0
	colDate        = 1
	colAmount      = 2
	colCategory    = 3
	colDescription = 4
)

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// MarshalExpense converts an expense to a CSV row. Dates are written in local time.
func MarshalExpense(e model.Expense) []string {
	row := make([]string, numFields)
	row[colID] = e.ID
	row[colDate] = e.Date.Local().Format(DateFormat)
	row[colAmount] = e.Amount.StringFixed(2)
	row[colCategory] = e.Category
	row[colDescription] = e.Description
	return row
}

// WriteCSV writes expenses (including header) in the given order.
func WriteCSV(w io.Writer, expenses []model.Expense) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, e := range expenses {
		if err := cw.Write(MarshalExpense(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
