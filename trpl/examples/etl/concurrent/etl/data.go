package etl

import (
	_ "embed"
	"time"
)

// Row represents a row in the input CSV file.
type Row struct {
	Time       time.Time `db:"time"`
	ViolDTTM   string    `csv:"violdttm" db:"-"`
	Business   string    `csv:"businessname" db:"business_name"`
	LicStatus  string    `csv:"licstatus" db:"license_status"`
	Result     string    `csv:"result" db:"result"`
	ViolDesc   string    `csv:"violdesc" db:"description"`
	ViolStatus string    `csv:"violstatus" db:"status"`
	ViolLevel  string    `csv:"viollevel" db:"-"`
	Comments   string    `csv:"comments" db:"comments"`
	Address    string    `csv:"address" db:"address"`
	City       string    `csv:"city" db:"city"`
	Zip        string    `csv:"zip" db:"zip"`
	Level      int       `db:"level"`
}

// DeString converts the string encoded fields into their concrete types:
// ViolDTTM into Time and ViolLevel into Level.
func (r Row) DeString() (Row, error) {
	switch r.ViolLevel {
	case "*":
		r.Level = 1
	case "**":
		r.Level = 2
	case "***":
		r.Level = 3
	default:
		r.Level = -1
	}

	if r.ViolDTTM != "" {
		var err error
		r.Time, err = time.Parse("2006-01-02 15:04:05", r.ViolDTTM)
		if err != nil {
			return r, err
		}
	}

	return r, nil
}

//go:embed insert.sql
var insertSQL string

// InsertQuery generates the query and arguments that insert this Row.
func (r Row) InsertQuery() (query string, args []any) {
	return insertSQL, []any{
		r.Business,
		r.LicStatus,
		r.Result,
		r.ViolDesc,
		r.Time,
		r.ViolStatus,
		r.Level,
		r.Comments,
		r.Address,
		r.City,
		r.Zip,
	}
}
