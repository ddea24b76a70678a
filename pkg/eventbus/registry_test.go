package eventbus_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/filmgrid/pkg/eventbus"
)

func TestRegistry(t *testing.T) {
	noop := func(ctx context.Context, ev eventbus.Event) error { return nil }

	t.Run("RegisterAndLookup", func(t *testing.T) {
		r := eventbus.NewRegistry()
		require.NoError(t, r.Register("film_deletion", noop))
		require.NoError(t, r.Register("episode_deletion", noop))

		h, ok := r.Handler("film_deletion")
		assert.True(t, ok)
		assert.NotNil(t, h)

		_, ok = r.Handler("unbound")
		assert.False(t, ok)

		assert.Equal(t, []string{"film_deletion", "episode_deletion"}, r.Queues())
	})

	t.Run("DuplicateBindingRejected", func(t *testing.T) {
		r := eventbus.NewRegistry()
		require.NoError(t, r.Register("film_deletion", noop))

		err := r.Register("film_deletion", noop)
		require.Error(t, err)
		assert.ErrorIs(t, err, eventbus.ErrDuplicateBinding)

		// The original binding survives the rejected registration.
		assert.Equal(t, []string{"film_deletion"}, r.Queues())
	})

	t.Run("NilHandlerRejected", func(t *testing.T) {
		r := eventbus.NewRegistry()
		require.Error(t, r.Register("film_deletion", nil))
	})
}
