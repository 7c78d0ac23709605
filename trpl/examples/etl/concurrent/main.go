// Program concurrent is the trpl driven version of the food inspection
// loader. A spawned task streams CSV blocks into an unbounded channel while
// the driving Func drains it, handing each block to a pool backed task that
// converts the rows and batch-writes them to Postgres. Compare with the row
// at a time version in ../original.
package main

import (
	"bufio"
	"context"
	_ "embed"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"time"

	"github.com/EthanAnro/rust-book/trpl"
	"github.com/EthanAnro/rust-book/trpl/examples/etl/concurrent/etl"
	"github.com/EthanAnro/rust-book/workers"
	"github.com/EthanAnro/rust-book/workers/pooled"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/jszwec/csvutil"
)

var (
	filePath  = flag.String("file", "../violations.csv", "The path to the file to parse")
	connStr   = flag.String("connStr", "", "The connection string to your postgres database")
	blockSize = flag.Int("blockSize", 1000, "How many CSV rows ride in one block")
)

//go:embed drop.sql
var dropSQL string

//go:embed schema.sql
var schemaSQL string

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	flag.Parse()

	if *blockSize < 100 {
		log.Fatalf("blockSize cannot be less than 100")
	}

	ctx := context.Background()

	connCtx, connCancel := context.WithTimeout(ctx, 10*time.Second)
	dbpool, err := pgxpool.Connect(connCtx, *connStr)
	connCancel()
	if err != nil {
		log.Fatalf("cannot connect to Postgres: %s", err)
	}
	defer dbpool.Close()

	if _, err := dbpool.Exec(ctx, dropSQL); err != nil {
		log.Fatalf("could not drop an existing violations table: %s", err)
	}
	if _, err := dbpool.Exec(ctx, schemaSQL); err != nil {
		log.Fatalf("could not create the violations table: %s", err)
	}

	tx, err := dbpool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		log.Fatalf("cannot start a transaction: %s", err)
	}

	f, err := os.Open(*filePath)
	if err != nil {
		log.Fatalf("cannot open our file: %s", err)
	}
	defer f.Close()

	wp, err := pooled.New("loaders", runtime.NumCPU())
	if err != nil {
		log.Fatalf("cannot create a worker pool: %s", err)
	}
	defer wp.Close()

	fmt.Println("Starting to process records...")
	start := time.Now()

	records, err := load(f, etl.NewWriter(tx), wp, *blockSize)
	if err != nil {
		tx.Rollback(ctx)
		log.Fatalf("load failed (transaction rolled back): %s", err)
	}

	fmt.Printf("Processed %d records into Postgres\n", records)
	fmt.Println("Committing transaction to Postgres...")
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("transaction commit failure: %s", err)
	}
	fmt.Println("Commit complete!  We are DONE!")
	fmt.Println("Time taken: ", time.Since(start))
}

// block is a decoded slice of CSV rows, or the error that stopped decoding.
type block struct {
	rows []etl.Row
	err  error
}

// loadResult carries load's outcome through trpl.Run.
type loadResult struct {
	records int
	err     error
}

// load streams CSV blocks from csvFile through an unbounded channel to pool
// backed tasks that convert and write them via w. It returns how many rows
// made it into the transaction. Rows that fail conversion are logged and
// skipped; read and write errors stop the load.
func load(csvFile io.Reader, w *etl.Writer, wp workers.Pool, blockSize int) (int, error) {
	rt, err := trpl.NewRuntime(trpl.WithName("loader"), trpl.WithPool(wp))
	if err != nil {
		return 0, err
	}
	defer rt.Close()

	res := trpl.RunOn(rt, func(ctx context.Context) loadResult {
		tx, rx := trpl.Channel[block]()

		// Producer: decode blocks as fast as the disk allows. The channel
		// never blocks it, so read speed is the only ceiling.
		trpl.Spawn(ctx, func(ctx context.Context) error {
			defer tx.Close()

			buf := bufio.NewReaderSize(csvFile, 10*1024*1024)
			dec, err := csvutil.NewDecoder(csv.NewReader(buf))
			if err != nil {
				tx.Send(block{err: err})
				return err
			}

			for {
				if err := ctx.Err(); err != nil {
					return err
				}

				rows := make([]etl.Row, 0, blockSize)
				for i := 0; i < blockSize; i++ {
					var row etl.Row
					if err := dec.Decode(&row); err != nil {
						if err == io.EOF {
							if len(rows) > 0 {
								tx.Send(block{rows: rows})
							}
							return nil
						}
						tx.Send(block{err: err})
						return err
					}
					rows = append(rows, row)
				}
				tx.Send(block{rows: rows})
			}
		})

		// Consumer: one pool backed task per block. Conversion runs
		// concurrently; Writer serializes the actual batch sends.
		errs := &workers.Errors{}
		handles := []*trpl.Task[int]{}
		for {
			b, err := rx.Recv(ctx)
			if err != nil {
				// Closed and drained.
				break
			}
			if b.err != nil {
				return loadResult{err: b.err}
			}

			handles = append(handles, trpl.Spawn(ctx, func(ctx context.Context) int {
				rows := make([]etl.Row, 0, len(b.rows))
				for _, row := range b.rows {
					row, err := row.DeString()
					if err != nil {
						log.Printf("bad row: %s", err)
						continue
					}
					rows = append(rows, row)
				}
				if err := w.WriteBlock(ctx, rows); err != nil {
					errs.Record(err)
					return 0
				}
				return len(rows)
			}))
		}

		written := 0
		for _, h := range handles {
			n, err := h.Await(ctx)
			if err != nil {
				return loadResult{err: err}
			}
			written += n
		}
		if err := errs.Error(); err != nil {
			return loadResult{err: err}
		}
		return loadResult{records: written}
	})

	return res.records, res.err
}
