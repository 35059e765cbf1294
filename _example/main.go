package main

import (
	"context"
	"flag"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/oklog/run"
	"github.com/peterbourgon/tsc"
	"github.com/peterbourgon/tsc/tscfile"
	"github.com/peterbourgon/tsc/tscstats"
)

const (
	tagRequest = iota + 1
	tagGet
	tagSet
	tagDel
	tagLockWait
)

var tagNames = tscstats.Names{
	tagRequest:  "request",
	tagGet:      "get",
	tagSet:      "set",
	tagDel:      "del",
	tagLockWait: "lock wait",
}

func main() {
	var (
		workers  = flag.Int("workers", 4, "number of worker threads")
		duration = flag.Duration("duration", 3*time.Second, "how long to run")
		dir      = flag.String("dir", os.TempDir(), "directory for exported files")
	)
	flag.Parse()

	var (
		store = NewStore()
		paths = make(chan string, *workers)
	)

	var g run.Group

	{
		ctx, cancel := context.WithTimeout(context.Background(), *duration)
		g.Add(func() error {
			var wg sync.WaitGroup
			for i := 0; i < *workers; i++ {
				wg.Add(1)
				go func(id int) {
					defer wg.Done()
					path, err := worker(ctx, store, *dir)
					if err != nil {
						log.Printf("worker %d: %v", id, err)
						return
					}
					log.Printf("worker %d: %s", id, path)
					paths <- path
				}(i)
			}
			wg.Wait()
			close(paths)
			return nil
		}, func(error) {
			cancel()
		})
	}

	{
		g.Add(run.SignalHandler(context.Background(), syscall.SIGINT, syscall.SIGTERM))
	}

	log.Printf("running %d worker(s) for %s", *workers, *duration)
	log.Printf("counter %s, capacity %d", tsc.CounterSource, tsc.Capacity)

	if err := g.Run(); err != nil {
		log.Printf("stopped: %v", err)
	}

	// Each worker exported its own buffer; merge them offline.
	total := tscstats.NewStats(tscstats.DefaultBucketing)
	for path := range paths {
		s := tscstats.NewStats(tscstats.DefaultBucketing)
		if err := tscfile.DecodeFile(path, func(tr tsc.Triple) error {
			s.Observe(tr)
			return nil
		}); err != nil {
			log.Fatal(err)
		}
		total.Merge(s)
	}

	if err := total.WriteTable(os.Stdout, tagNames); err != nil {
		log.Fatal(err)
	}
}

// worker serves random requests against the store until the context is done,
// and then exports its thread's buffer.
func worker(ctx context.Context, s *Store, dir string) (string, error) {
	buf, unpin := tsc.Pin()
	defer unpin()

	for ctx.Err() == nil {
		span := buf.Start(tagRequest)

		key := getWord()
		switch f := rand.Float64(); {
		case f < 0.6:
			s.Get(buf, key)
		case f < 0.9:
			s.Set(buf, key, getWord())
		default:
			s.Del(buf, key)
		}

		span.End()
	}

	return buf.WriteFile(dir, tsc.FormatBinary)
}

//
//
//

// Store is a key-value store. Every operation is traced in the buffer it's
// given, which must belong to the calling thread.
type Store struct {
	mtx sync.Mutex
	set map[string]string
}

func NewStore() *Store {
	return &Store{
		set: map[string]string{},
	}
}

func (s *Store) Set(buf *tsc.Buffer, key, val string) {
	span := buf.Start(tagSet)
	defer span.End()
	s.lock(buf)
	defer s.mtx.Unlock()
	spin(getDelay(key, 250))
	s.set[key] = val
}

func (s *Store) Get(buf *tsc.Buffer, key string) (string, bool) {
	span := buf.Start(tagGet)
	defer span.End()
	s.lock(buf)
	defer s.mtx.Unlock()
	val, ok := s.set[key]
	spin(getDelay(key, 100))
	return val, ok
}

func (s *Store) Del(buf *tsc.Buffer, key string) bool {
	span := buf.Start(tagDel)
	defer span.End()
	s.lock(buf)
	defer s.mtx.Unlock()
	_, ok := s.set[key]
	delete(s.set, key)
	spin(getDelay(key, 10))
	return ok
}

func (s *Store) lock(buf *tsc.Buffer) {
	start := tsc.Counter()
	s.mtx.Lock()
	buf.Insert(tagLockWait, start, tsc.Counter())
}

//
//
//

var words = []string{
	"air", "area", "art", "back", "body",
	"book", "business", "car", "case", "change",
	"child", "city", "community", "company", "country",
	"day", "door", "education", "end", "eye",
	"face", "fact", "family", "father", "force",
	"friend", "game", "girl", "government", "group",
	"guy", "hand", "head", "health", "history",
	"home", "hour", "house", "idea", "information",
	"issue", "job", "kid", "kind", "law",
	"level", "life", "line", "lot", "man",
}

func getWord() string {
	return words[rand.Intn(len(words))]
}

func getDelay(word string, base int) int {
	return len(word) * base
}

func spin(n int) (x int) {
	for i := 0; i < n; i++ {
		x += i
	}
	return x
}

func init() {
	log.SetFlags(0)
	log.SetPrefix(filepath.Base(os.Args[0]) + ": ")
}
