package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"quivato_reviews/internal/domain"
)

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// reviewView is the public JSON shape; `_id` is what existing clients read.
type reviewView struct {
	ID                  string  `json:"_id"`
	Review              string  `json:"review"`
	ReviewerName        string  `json:"reviewer_name"`
	ReviewerDesignation string  `json:"reviewer_designation"`
	ReviewerImage       *string `json:"reviewer_image,omitempty"`
}

func toView(rv domain.Review) reviewView {
	return reviewView{
		ID:                  rv.ID,
		Review:              rv.Text,
		ReviewerName:        rv.Name,
		ReviewerDesignation: rv.Designation,
		ReviewerImage:       rv.Image,
	}
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps the domain taxonomy onto status codes. Server-side faults are
// logged here and reported without internals.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ve *domain.ValidationError
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		writeProblem(w, http.StatusUnauthorized, "Unauthorized", "")
	case errors.As(err, &ve):
		writeProblem(w, http.StatusBadRequest, "Validation Failed", ve.Error())
	case errors.Is(err, domain.ErrInvalidID):
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id is not a valid review identifier")
	case errors.Is(err, domain.ErrPayloadTooLarge):
		writeProblem(w, http.StatusRequestEntityTooLarge, "Payload Too Large", "request body exceeds the upload limit")
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "review not found")
	case errors.Is(err, domain.ErrProcessing):
		logFault(r, err, "image processing failed")
		writeProblem(w, http.StatusInternalServerError, "Processing Error", "error processing image")
	case errors.Is(err, context.DeadlineExceeded):
		logFault(r, err, "store deadline exceeded")
		writeProblem(w, http.StatusGatewayTimeout, "Store Timeout", "the review store did not respond in time")
	default:
		logFault(r, err, "store operation failed")
		writeProblem(w, http.StatusInternalServerError, "Store Error", "error accessing reviews")
	}
}

func logFault(r *http.Request, err error, msg string) {
	log.Error().Err(err).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Str("request_id", chimw.GetReqID(r.Context())).
		Msg(msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return "", nil, err
	}
	sum := sha1.Sum(body)
	return `W/"` + hex.EncodeToString(sum[:]) + `"`, body, nil
}

// writeCached serves v with an ETag and answers 304 when the client already has it.
func writeCached(w http.ResponseWriter, r *http.Request, v any) {
	etag, body, err := calcETagAndBody(v)
	if err != nil {
		logFault(r, err, "marshal response failed")
		writeProblem(w, http.StatusInternalServerError, "Encoding Error", "")
		return
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}
