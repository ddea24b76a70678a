package films_test

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmgrid/filmgrid/internal/films"
	"github.com/filmgrid/filmgrid/pkg/blobstore"
	memorystorage "github.com/filmgrid/filmgrid/pkg/blobstore/memory"
	"github.com/filmgrid/filmgrid/pkg/cascade"
	"github.com/filmgrid/filmgrid/pkg/eventbus"
	"github.com/filmgrid/filmgrid/pkg/events"
)

type recordingPublisher struct {
	queues []string
	events []eventbus.Event
}

func (p *recordingPublisher) Publish(ctx context.Context, queue string, ev eventbus.Event) error {
	p.queues = append(p.queues, queue)
	p.events = append(p.events, ev)
	return nil
}

func newTestService(t *testing.T) (*films.Service, *films.MemoryRepository, *memorystorage.Backend, *recordingPublisher) {
	t.Helper()
	repo := films.NewMemoryRepository()
	store := memorystorage.New()
	pub := &recordingPublisher{}
	coord := cascade.NewCoordinator(store, pub, slog.Default(), cascade.WithReclaimPolicy(1, 0))
	return films.NewService(repo, coord, slog.Default()), repo, store, pub
}

func storeFilm(t *testing.T, svc *films.Service, store *memorystorage.Backend, qualities []blobstore.Quality) *films.Film {
	t.Helper()
	ctx := context.Background()
	film := &films.Film{Title: "Stalker", Year: 1979, Qualities: qualities}
	require.NoError(t, svc.Create(ctx, film))
	for _, q := range qualities {
		key := blobstore.ObjectKey{ContentID: film.ID, Kind: blobstore.KindFilm, Quality: q}
		require.NoError(t, store.Upload(ctx, key.String(), strings.NewReader("video"), "video/mp4"))
	}
	coverKey := blobstore.CoverKey(film.ID)
	require.NoError(t, store.Upload(ctx, coverKey.String(), strings.NewReader("img"), "image/jpeg"))
	return film
}

func TestServiceDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("RemovesRecordReclaimsStorageAndPublishes", func(t *testing.T) {
		svc, _, store, pub := newTestService(t)
		film := storeFilm(t, svc, store, []blobstore.Quality{blobstore.Quality480p, blobstore.Quality1080p})

		require.NoError(t, svc.Delete(ctx, film.ID))

		_, err := svc.Get(ctx, film.ID)
		assert.ErrorIs(t, err, films.ErrFilmNotFound)

		objects, err := store.List(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, objects)

		require.Len(t, pub.events, 1)
		assert.Equal(t, []string{events.QueueFilmDeletion}, pub.queues)
		id, err := events.FilmID(pub.events[0])
		require.NoError(t, err)
		assert.Equal(t, film.ID, id)
	})

	t.Run("UnknownFilm", func(t *testing.T) {
		svc, _, _, pub := newTestService(t)

		err := svc.Delete(ctx, 999)
		assert.ErrorIs(t, err, films.ErrFilmNotFound)
		assert.Empty(t, pub.events)
	})

	t.Run("ResidualStorageKeysSurfaceAndSkipTheEvent", func(t *testing.T) {
		svc, _, store, pub := newTestService(t)
		film := storeFilm(t, svc, store, []blobstore.Quality{blobstore.Quality720p})

		stuck := blobstore.ObjectKey{ContentID: film.ID, Kind: blobstore.KindFilm, Quality: blobstore.Quality720p}
		store.FailDeletes(stuck.String())

		err := svc.Delete(ctx, film.ID)
		var partial *blobstore.PartialDeleteError
		require.ErrorAs(t, err, &partial)
		assert.Equal(t, []string{stuck.String()}, partial.Failed)
		assert.Empty(t, pub.events)
	})

	t.Run("CreateRejectsUnknownQuality", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		err := svc.Create(ctx, &films.Film{Title: "x", Qualities: []blobstore.Quality{"144p"}})
		require.Error(t, err)
	})
}
