package films

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/filmgrid/filmgrid/pkg/blobstore"
)

// Handler handles HTTP requests for catalog films.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the routes for films.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.CreateFilm)
	r.Get("/", h.ListFilms)
	r.Get("/{id}", h.GetFilm)
	r.Delete("/{id}", h.DeleteFilm)

	return r
}

// CreateFilmRequest is the request body for creating a film.
type CreateFilmRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Year        int      `json:"year"`
	Qualities   []string `json:"qualities"`
}

// CreateFilm creates a new film record.
func (h *Handler) CreateFilm(w http.ResponseWriter, r *http.Request) {
	var req CreateFilmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.Title == "" {
		http.Error(w, "Title is required", http.StatusBadRequest)
		return
	}

	film := &Film{
		Title:       req.Title,
		Description: req.Description,
		Year:        req.Year,
		Qualities:   parseQualities(req.Qualities),
	}
	if err := h.service.Create(r.Context(), film); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, film)
}

// GetFilm retrieves a film by ID.
func (h *Handler) GetFilm(w http.ResponseWriter, r *http.Request) {
	id, err := filmID(r)
	if err != nil {
		http.Error(w, "Invalid film ID", http.StatusBadRequest)
		return
	}

	film, err := h.service.Get(r.Context(), id)
	if errors.Is(err, ErrFilmNotFound) {
		http.Error(w, "Film not found", http.StatusNotFound)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.JSON(w, r, film)
}

// ListFilms lists all films.
func (h *Handler) ListFilms(w http.ResponseWriter, r *http.Request) {
	films, err := h.service.List(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	render.JSON(w, r, films)
}

// DeleteFilm starts the cascading deletion of a film. 202 means the
// deletion is accepted: the catalog record is gone and the event is
// published, while downstream purges complete asynchronously.
func (h *Handler) DeleteFilm(w http.ResponseWriter, r *http.Request) {
	id, err := filmID(r)
	if err != nil {
		http.Error(w, "Invalid film ID", http.StatusBadRequest)
		return
	}

	err = h.service.Delete(r.Context(), id)
	if errors.Is(err, ErrFilmNotFound) {
		http.Error(w, "Film not found", http.StatusNotFound)
		return
	}
	var partial *blobstore.PartialDeleteError
	if errors.As(err, &partial) {
		http.Error(w, "Storage reclamation incomplete", http.StatusBadGateway)
		return
	}
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	render.Status(r, http.StatusAccepted)
	render.JSON(w, r, map[string]string{"status": "accepted"})
}

func filmID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}
