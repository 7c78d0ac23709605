package main

import (
	"crypto/rand"
	"log"

	"github.com/google/uuid"
)

// item is one unit of soak work: a unique ID and a pile of random payload
// blocks to churn.
type item struct {
	ID      string
	Payload [][]byte
}

// newItem generates an item with 100KiB of random payload.
func newItem() item {
	data := make([][]byte, 0, 100)
	for i := 0; i < 100; i++ {
		b := make([]byte, 1024)
		if _, err := rand.Read(b); err != nil {
			log.Fatalf("error while generating random bytes: %s", err)
		}
		data = append(data, b)
	}
	return item{ID: uuid.New().String(), Payload: data}
}

func reverse(s []byte) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
