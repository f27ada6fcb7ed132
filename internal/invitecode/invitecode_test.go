package invitecode_test

import (
	"context"
	"errors"
	"testing"

	"go-attendance/internal/invitecode"
	invitecodeerrors "go-attendance/internal/invitecode/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLookup struct {
	existsFn func(ctx context.Context, code string) (bool, error)
	calls    int
}

func (f *fakeLookup) ExistsByInviteCode(ctx context.Context, code string) (bool, error) {
	f.calls++
	return f.existsFn(ctx, code)
}

func TestGenerate_Shape(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := invitecode.Generate()
		require.NoError(t, err)
		assert.Len(t, code, invitecode.Length)
		assert.True(t, invitecode.Valid(code), code)
	}
}

func TestAllocator_Allocate(t *testing.T) {
	ctx := context.Background()

	t.Run("first free code wins", func(t *testing.T) {
		lookup := &fakeLookup{existsFn: func(ctx context.Context, code string) (bool, error) { return false, nil }}
		code, err := invitecode.NewAllocator(10).Allocate(ctx, lookup)

		assert.NoError(t, err)
		assert.True(t, invitecode.Valid(code))
		assert.Equal(t, 1, lookup.calls)
	})

	t.Run("retries past collisions", func(t *testing.T) {
		codes := []string{"AAAAAA", "BBBBBB", "CCCCCC"}
		i := 0
		gen := func() (string, error) { c := codes[i]; i++; return c, nil }
		lookup := &fakeLookup{existsFn: func(ctx context.Context, code string) (bool, error) {
			return code != "CCCCCC", nil
		}}

		code, err := invitecode.NewAllocator(10, invitecode.WithGenerator(gen)).Allocate(ctx, lookup)

		assert.NoError(t, err)
		assert.Equal(t, "CCCCCC", code)
		assert.Equal(t, 3, lookup.calls)
	})

	t.Run("exhaustion is resource-exhausted", func(t *testing.T) {
		lookup := &fakeLookup{existsFn: func(ctx context.Context, code string) (bool, error) { return true, nil }}

		_, err := invitecode.NewAllocator(10).Allocate(ctx, lookup)

		assert.ErrorIs(t, err, invitecodeerrors.ErrExhausted)
		assert.Equal(t, 10, lookup.calls)
	})

	t.Run("store errors propagate", func(t *testing.T) {
		boom := errors.New("db down")
		lookup := &fakeLookup{existsFn: func(ctx context.Context, code string) (bool, error) { return false, boom }}

		_, err := invitecode.NewAllocator(3).Allocate(ctx, lookup)

		assert.ErrorIs(t, err, boom)
	})
}

func TestNormalizeAndValid(t *testing.T) {
	assert.Equal(t, "AB12CD", invitecode.Normalize(" ab12cd "))
	assert.False(t, invitecode.Valid("ab12cd"))
	assert.False(t, invitecode.Valid("AB12C"))
	assert.False(t, invitecode.Valid("AB-2CD"))
}
