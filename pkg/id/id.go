// Package id issues time-sortable ULID strings for run and order records.
// Sorting journal rows by ID orders them by creation time, which keeps
// SQLite indexes and CSV output naturally chronological.
package id

import (
	cryptoRand "crypto/rand"
	"encoding/binary"
	"io"
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy io.Reader
)

func init() {
	entropy = ulid.Monotonic(rand.New(rand.NewSource(seed())), 0)
}

// seed draws from crypto/rand so the PRNG feeding ULID entropy is
// unpredictable across processes.
func seed() int64 {
	var s int64
	_ = binary.Read(cryptoRand.Reader, binary.LittleEndian, &s)
	if s == 0 {
		s = time.Now().UnixNano()
	}
	return s
}

// New returns a fresh ULID string. IDs minted within the same millisecond
// remain lexicographically increasing.
func New() string {
	mu.Lock()
	defer mu.Unlock()

	u, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		// Only possible if entropy fails or time runs backwards.
		panic(err)
	}
	return u.String()
}
