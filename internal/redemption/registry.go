// Package redemption tracks which virtual product codes have been used.
//
// A Registry is an explicit value owned by the caller rather than process
// global state. All methods are safe for concurrent use.
package redemption

import (
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"

	"github.com/xenking/order-reports/internal/domain/product"
)

const (
	defaultCapacity          = 1024
	defaultFalsePositiveRate = 0.001
)

var (
	// ErrCodeUsed is returned by Redeem when the code was already used.
	ErrCodeUsed = errors.New("code already used")
	// ErrCodeExpired is returned by Redeem when the product expired before
	// the redemption date.
	ErrCodeExpired = errors.New("code expired")
)

// Options controls the sizing of the registry's membership filter. Zero
// values select defaults.
type Options struct {
	// Capacity is the expected number of distinct used codes.
	Capacity uint
	// FalsePositiveRate is the target false positive rate of the filter.
	FalsePositiveRate float64
}

// Registry is a set of used codes.
//
// Lookups go through a bloom filter first so that the common case of an
// unused code is answered without touching the exact set. A filter hit is
// always confirmed against the set, so IsUsed never reports false positives.
type Registry struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
	used   map[string]struct{}
}

// NewRegistry returns an empty Registry.
func NewRegistry(opts Options) *Registry {
	if opts.Capacity == 0 {
		opts.Capacity = defaultCapacity
	}
	if opts.FalsePositiveRate <= 0 || opts.FalsePositiveRate >= 1 {
		opts.FalsePositiveRate = defaultFalsePositiveRate
	}
	return &Registry{
		filter: bloom.NewWithEstimates(opts.Capacity, opts.FalsePositiveRate),
		used:   make(map[string]struct{}),
	}
}

// Use marks code as used. Marking a code twice has no additional effect.
func (r *Registry) Use(code string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.useLocked(code)
}

// IsUsed reports whether code has been marked as used.
func (r *Registry) IsUsed(code string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.isUsedLocked(code)
}

// Len returns the number of distinct used codes.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.used)
}

// Redeem marks the code of v as used on the given date. It fails with
// ErrCodeExpired when now falls after the expiration date and with
// ErrCodeUsed when the code was already used; in both cases the registry is
// left unchanged.
func (r *Registry) Redeem(v product.Virtual, now time.Time) error {
	if product.Date(now).After(v.ExpiresOn()) {
		return errors.Wrapf(ErrCodeExpired, "redeem %q (expired %s)", v.Code(), v.ExpiresOn().Format(time.DateOnly))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.isUsedLocked(v.Code()) {
		return errors.Wrapf(ErrCodeUsed, "redeem %q", v.Code())
	}
	r.useLocked(v.Code())
	return nil
}

func (r *Registry) useLocked(code string) {
	if _, ok := r.used[code]; ok {
		return
	}
	r.used[code] = struct{}{}
	r.filter.AddString(code)
}

func (r *Registry) isUsedLocked(code string) bool {
	if !r.filter.TestString(code) {
		return false
	}
	_, ok := r.used[code]
	return ok
}
