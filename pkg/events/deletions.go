// Package events holds the event name and payload contracts shared across
// services. Queue names and payload field names are stable strings; adding
// payload fields is backward compatible because consumers ignore unknown
// fields, while removing or renaming them is a breaking contract change.
package events

import (
	"github.com/filmgrid/filmgrid/pkg/eventbus"
)

// Queue names shared as contracts across services.
const (
	QueueFilmDeletion    = "film_deletion"
	QueueEpisodeDeletion = "episode_deletion"
)

// NewFilmDeletion builds the event published when a film and its stored
// media have been removed from the catalog. Services owning derived
// records (favorites, comments, ratings) purge them on consumption.
func NewFilmDeletion(filmID int64) eventbus.Event {
	return eventbus.New(QueueFilmDeletion, map[string]any{"film_id": filmID})
}

// NewEpisodeDeletion builds the event published when a series episode and
// its stored media have been removed.
func NewEpisodeDeletion(episodeID int64) eventbus.Event {
	return eventbus.New(QueueEpisodeDeletion, map[string]any{"episode_id": episodeID})
}

// FilmID extracts the required film identifier from a film_deletion
// event, failing closed if it is absent.
func FilmID(ev eventbus.Event) (int64, error) {
	return ev.Int64("film_id")
}

// EpisodeID extracts the required episode identifier from an
// episode_deletion event, failing closed if it is absent.
func EpisodeID(ev eventbus.Event) (int64, error) {
	return ev.Int64("episode_id")
}
