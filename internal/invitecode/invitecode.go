// Package invitecode allocates the short codes members type in to join a company.
package invitecode

import (
	"context"
	"crypto/rand"
	"math/big"
	"strings"

	invitecodeerrors "go-attendance/internal/invitecode/errors"
	"go-attendance/internal/shared/contextutil"

	"go.uber.org/zap"
)

const (
	Length             = 6
	Alphabet           = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	DefaultMaxAttempts = 10
)

// Lookup is the slice of the company store the allocator needs.
type Lookup interface {
	ExistsByInviteCode(ctx context.Context, code string) (bool, error)
}

type Allocator struct {
	maxAttempts int
	generate    func() (string, error)
	logger      *zap.Logger
}

type Option func(*Allocator)

// WithGenerator replaces the random source. Tests use it to force collisions.
func WithGenerator(fn func() (string, error)) Option {
	return func(a *Allocator) { a.generate = fn }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Allocator) {
		if l != nil {
			a.logger = l.Named("invitecode.allocator")
		}
	}
}

func NewAllocator(maxAttempts int, opts ...Option) *Allocator {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	a := &Allocator{
		maxAttempts: maxAttempts,
		generate:    Generate,
		logger:      zap.L().Named("invitecode.allocator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Allocate returns a code no existing company holds. lookup should be bound to
// the caller's transaction so the check and the write share a snapshot; the
// unique index on companies.invite_code catches anything that slips through.
func (a *Allocator) Allocate(ctx context.Context, lookup Lookup) (string, error) {
	l := contextutil.GetLogger(ctx, a.logger)

	for attempt := 1; attempt <= a.maxAttempts; attempt++ {
		code, err := a.generate()
		if err != nil {
			return "", err
		}

		exists, err := lookup.ExistsByInviteCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}

		l.Debug("invite code collision", zap.Int("attempt", attempt))
	}

	l.Warn("invite code space exhausted", zap.Int("max_attempts", a.maxAttempts))
	return "", invitecodeerrors.ErrExhausted
}

// Generate draws Length characters uniformly from Alphabet.
func Generate() (string, error) {
	alphabetSize := big.NewInt(int64(len(Alphabet)))
	var b strings.Builder
	b.Grow(Length)
	for i := 0; i < Length; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", err
		}
		b.WriteByte(Alphabet[n.Int64()])
	}
	return b.String(), nil
}

// Normalize upper-cases user input so lookups match stored codes.
func Normalize(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Valid reports whether code has the allocated shape.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if strings.IndexByte(Alphabet, code[i]) < 0 {
			return false
		}
	}
	return true
}
