// internal/adapters/http_server/handlers.go
package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"quivato_reviews/internal/adapters/upload"
	"quivato_reviews/internal/app"
)

type Handlers struct {
	Q       *app.ReviewQueries
	C       *app.ReviewCommands
	Gate    *app.SecretGate
	Uploads *upload.Pipeline

	// MaxUploadBytes caps the whole write request body; 0 disables the cap.
	MaxUploadBytes int64
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("Server is running")) })
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/reviews", func(r chi.Router) {
		r.Get("/", h.listReviews)
		r.Post("/", h.createReview)
		r.Get("/{id}", h.getReview)
		r.Patch("/{id}", h.updateReview)
		r.Delete("/{id}", h.deleteReview)
	})
}

func (h *Handlers) listReviews(w http.ResponseWriter, r *http.Request) {
	rs, err := h.Q.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]reviewView, 0, len(rs))
	for _, rv := range rs {
		out = append(out, toView(rv))
	}
	writeCached(w, r, out)
}

func (h *Handlers) getReview(w http.ResponseWriter, r *http.Request) {
	rv, err := h.Q.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeCached(w, r, toView(rv))
}

// authorized reads the write envelope and checks the secret. It writes the
// error response itself and reports false when the request must stop.
func (h *Handlers) authorized(w http.ResponseWriter, r *http.Request) (writeRequest, bool) {
	req, err := readWrite(w, r, h.MaxUploadBytes)
	if err == nil {
		err = h.Gate.Authorize(req.Secret)
	}
	if err != nil {
		writeError(w, r, err)
		return writeRequest{}, false
	}
	return req, true
}

func (h *Handlers) createReview(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	req, ok := h.authorized(w, r)
	if !ok {
		return
	}
	var p createPayload
	if err := decodeData(req.Data, &p); err != nil {
		writeError(w, r, err)
		return
	}
	// reject incomplete payloads before paying for the encode
	if err := app.ValidateNew(p.fields(nil)); err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.Uploads.Ingest(r.Context(), req.Files, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := h.C.Create(r.Context(), p.fields(img))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"acknowledged": true, "insertedId": id})
}

func (h *Handlers) updateReview(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	req, ok := h.authorized(w, r)
	if !ok {
		return
	}
	var p updatePayload
	if err := decodeData(req.Data, &p); err != nil {
		writeError(w, r, err)
		return
	}
	img, err := h.Uploads.Ingest(r.Context(), req.Files, false)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.C.Update(r.Context(), chi.URLParam(r, "id"), p.patch(img))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":       "Review updated successfully",
		"matchedCount":  res.Matched,
		"modifiedCount": res.Modified,
	})
}

func (h *Handlers) deleteReview(w http.ResponseWriter, r *http.Request) {
	defer removeForm(r)
	if _, ok := h.authorized(w, r); !ok {
		return
	}
	n, err := h.C.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"acknowledged": true, "deletedCount": n})
}

func removeForm(r *http.Request) {
	if r.MultipartForm != nil {
		_ = r.MultipartForm.RemoveAll()
	}
}
