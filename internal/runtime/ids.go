package runtime

import (
	"crypto/rand"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

// IDGenerator produces unique entity ids.
type IDGenerator interface {
	NewID() string
}

// IDGeneratorFunc adapts a function to IDGenerator.
type IDGeneratorFunc func() string

func (f IDGeneratorFunc) NewID() string { return f() }

// ID schemes accepted by NewIDGenerator.
const (
	IDSchemeUUID = "uuid"
	IDSchemeULID = "ulid"
)

// NewIDGenerator returns the generator for a configured scheme.
func NewIDGenerator(scheme string) (IDGenerator, error) {
	switch scheme {
	case "", IDSchemeUUID:
		return NewUUIDGenerator(), nil
	case IDSchemeULID:
		return NewULIDGenerator(), nil
	default:
		return nil, fmt.Errorf("unknown id scheme %q", scheme)
	}
}

type uuidGenerator struct{}

// NewUUIDGenerator returns a generator of random (v4) UUIDs.
func NewUUIDGenerator() IDGenerator { return uuidGenerator{} }

func (uuidGenerator) NewID() string { return uuid.NewString() }

type ulidGenerator struct {
	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// NewULIDGenerator returns a generator of lexically sortable ULIDs.
// Ids minted within the same millisecond stay strictly increasing.
func NewULIDGenerator() IDGenerator {
	return &ulidGenerator{entropy: ulid.Monotonic(rand.Reader, 0)}
}

func (g *ulidGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy).String()
}

// SequenceGenerator yields prefix-1, prefix-2, ... and is meant for tests
// and reproducible fixtures.
type SequenceGenerator struct {
	prefix string
	n      atomic.Uint64
}

// NewSequenceGenerator creates a deterministic generator.
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	return &SequenceGenerator{prefix: prefix}
}

func (g *SequenceGenerator) NewID() string {
	return fmt.Sprintf("%s-%d", g.prefix, g.n.Add(1))
}
