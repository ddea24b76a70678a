package playback

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

// Handler handles HTTP requests for playback URLs.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for playback.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/{id}/playback", h.GetPlaybackURL)

	return r
}

// PlaybackResponse is the response body for a playback URL.
type PlaybackResponse struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// GetPlaybackURL returns a signed URL for one film quality variant.
func (h *Handler) GetPlaybackURL(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Invalid film ID", http.StatusBadRequest)
		return
	}

	quality := blobstore.Quality(r.URL.Query().Get("quality"))
	if quality == "" {
		quality = blobstore.Quality720p
	}
	if !blobstore.ValidQuality(quality) {
		http.Error(w, "Unknown quality", http.StatusBadRequest)
		return
	}

	url, err := h.service.PlaybackURL(r.Context(), id, quality)
	if errors.Is(err, blobstore.ErrObjectNotFound) {
		http.Error(w, "Variant not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, PlaybackResponse{URL: url, Quality: string(quality)})
}
