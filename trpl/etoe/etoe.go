// etoe is a soak test for the trpl package. It pushes around a gigabyte of
// generated work through a Runtime, pool backed Spawns, the unbounded
// channel, and the combinators, with pprof exposed so stalls and leaks can
// be chased down.
package main

import (
	"context"
	"log"
	"net/http"
	_ "net/http/pprof"
	"runtime"
	"runtime/debug"
	"time"

	"github.com/EthanAnro/rust-book/trpl"
	"github.com/EthanAnro/rust-book/workers"
	"github.com/EthanAnro/rust-book/workers/limited"
)

const (
	producers   = 4
	perProducer = 2500
	batchSize   = 100
)

// recvResult lets a Recv ride inside a Timeout.
type recvResult struct {
	item item
	err  error
}

func main() {
	runtime.SetBlockProfileRate(1)
	runtime.SetMutexProfileFraction(1)

	go func() {
		log.Println(http.ListenAndServe("localhost:6060", nil))
	}()

	pool, err := limited.New("etoeworkers", runtime.NumCPU())
	if err != nil {
		panic(err)
	}
	defer pool.Close()

	rt, err := trpl.NewRuntime(trpl.WithName("etoe"))
	if err != nil {
		panic(err)
	}
	defer rt.Close()

	// This tries to recapture memory every minute.
	stop := make(chan chan struct{}, 1)
	go func() {
		for range time.Tick(1 * time.Minute) {
			ch := make(chan struct{})
			log.Println("Sending stop")
			stop <- ch
			runtime.GC()
			time.Sleep(5 * time.Second)
			debug.FreeOSMemory()
			log.Println("Sending go")
			ch <- struct{}{}
		}
	}()

	now := time.Now()
	total := trpl.RunOn(rt, func(ctx context.Context) uint64 {
		tx, rx := trpl.Channel[item]()

		prods := make([]*trpl.Task[int], 0, producers)
		for p := 0; p < producers; p++ {
			prods = append(prods, trpl.Spawn(ctx, func(ctx context.Context) int {
				sent := 0
				for i := 0; i < perProducer; i++ {
					if err := tx.Send(newItem()); err != nil {
						return sent
					}
					sent++
				}
				return sent
			}))
		}
		trpl.Spawn(ctx, func(ctx context.Context) int {
			defer tx.Close()
			n := 0
			for _, p := range prods {
				v, _ := p.Await(ctx)
				n += v
			}
			return n
		})

		var n uint64
		batch := make([]item, 0, batchSize)
		for {
			res, err := trpl.Timeout(ctx, 10*time.Second, func(ctx context.Context) recvResult {
				v, err := rx.Recv(ctx)
				return recvResult{item: v, err: err}
			})
			if err != nil {
				log.Println("nothing came out after 10 seconds, the run is probably stuck")
				continue
			}
			if res.err != nil {
				// Closed and drained.
				break
			}

			batch = append(batch, res.item)
			if len(batch) < batchSize {
				continue
			}
			n += flush(ctx, pool, batch)
			batch = batch[:0]
			if n%1000 == 0 {
				log.Println("processed: ", n)
			}

			select {
			case goCh := <-stop:
				log.Println("Received stop")
				<-goCh
				log.Println("Received go")
			default:
			}
		}
		n += flush(ctx, pool, batch)
		return n
	})

	log.Println("processed ", total, " items, total time: ", time.Since(now))
}

// flush churns every payload block in the batch on the pool and returns how
// many items were handled.
func flush(ctx context.Context, pool workers.Pool, batch []item) uint64 {
	if len(batch) == 0 {
		return 0
	}

	fns := make([]trpl.Func[string], 0, len(batch))
	for _, it := range batch {
		it := it
		fns = append(fns, func(ctx context.Context) string {
			for _, b := range it.Payload {
				reverse(b)
			}
			return it.ID
		})
	}

	ids := trpl.All(ctx, fns, trpl.WithPool(pool))
	return uint64(len(ids))
}
