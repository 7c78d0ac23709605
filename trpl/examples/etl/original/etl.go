// Program original is the sequential version of the food inspection loader.
// It decodes the violations CSV one row at a time and writes each row to
// Postgres inside a single transaction. The concurrent sibling in
// ../concurrent does the same job on a trpl Runtime; keep the two in sync
// when changing either.
package main

import (
	_ "embed"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/jackc/pgx/v4/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/jszwec/csvutil"
)

var (
	filePath = flag.String("file", "../violations.csv", "The path to the file to parse")
	connStr  = flag.String("connStr", "", "The connection string to your postgres database")
)

//go:embed drop.sql
var dropSQL string

//go:embed schema.sql
var schemaSQL string

//go:embed insert.sql
var insertSQL string

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

// Summary is printed as JSON on stdout when the loader finishes.
type Summary struct {
	Records   int
	BadRows   int
	ErrorFrac float64
	Elapsed   string
}

// etl decodes every row from csvFile and inserts it on tx. Rows that fail
// to decode or convert are logged and skipped; only database errors stop
// the load.
func etl(csvFile io.Reader, tx *sqlx.Tx) (records int, badRows int, err error) {
	dec, err := csvutil.NewDecoder(csv.NewReader(csvFile))
	if err != nil {
		return 0, 0, err
	}

	for {
		var row Row
		err := dec.Decode(&row)
		if err == io.EOF {
			break
		}
		records++
		if err != nil {
			log.Printf("bad row %d: %s", records, err)
			badRows++
			continue
		}
		row, err = row.DeString()
		if err != nil {
			log.Printf("bad row %d: %s", records, err)
			badRows++
			continue
		}
		if _, err := tx.NamedExec(insertSQL, &row); err != nil {
			return records, badRows, err
		}
	}

	return records, badRows, nil
}

func main() {
	flag.Parse()

	file, err := os.Open(*filePath)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	db, err := sqlx.Open("pgx", *connStr)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err = db.Exec(dropSQL); err != nil {
		log.Fatal(err)
	}
	if _, err = db.Exec(schemaSQL); err != nil {
		log.Fatal(err)
	}

	tx, err := db.Beginx()
	if err != nil {
		log.Fatal(err)
	}

	start := time.Now()
	records, badRows, err := etl(file, tx)
	elapsed := time.Since(start)
	if err != nil {
		tx.Rollback()
		log.Fatal(err)
	}

	frac := float64(badRows) / float64(records)
	if frac > 0.1 {
		tx.Rollback()
		log.Fatalf("too many bad rows: %d/%d = %f", badRows, records, frac)
	}
	if err := tx.Commit(); err != nil {
		log.Fatal(err)
	}

	out, err := json.Marshal(Summary{
		Records:   records,
		BadRows:   badRows,
		ErrorFrac: frac,
		Elapsed:   elapsed.String(),
	})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}
