package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"quivato_reviews/internal/adapters/upload"
	"quivato_reviews/internal/domain"
)

const (
	secretField = "password"
	dataField   = "data"

	// parts beyond this stay in the runtime's own temp files until the request ends
	formMemory = 1 << 20
)

// writeRequest is what every admin route reads before authorizing.
type writeRequest struct {
	Secret string
	Data   []byte
	Files  []*multipart.FileHeader
}

// jsonWrite is the JSON-body variant; data may be an object or a JSON string.
type jsonWrite struct {
	Password string          `json:"password"`
	Data     json.RawMessage `json:"data"`
}

// createPayload is the typed schema of the `data` field on create. All fields are required.
type createPayload struct {
	Review              string `json:"review"`
	ReviewerName        string `json:"reviewer_name"`
	ReviewerDesignation string `json:"reviewer_designation"`
}

// updatePayload only carries the fields the caller wants to change.
type updatePayload struct {
	Review              *string `json:"review"`
	ReviewerName        *string `json:"reviewer_name"`
	ReviewerDesignation *string `json:"reviewer_designation"`
}

func readWrite(w http.ResponseWriter, r *http.Request, limit int64) (writeRequest, error) {
	if limit > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))

	switch mt {
	case "multipart/form-data":
		if err := r.ParseMultipartForm(formMemory); err != nil {
			return writeRequest{}, bodyError(err)
		}
		// body parts only; r.Form would let the query string override them
		body := url.Values(r.MultipartForm.Value)
		return writeRequest{
			Secret: body.Get(secretField),
			Data:   []byte(body.Get(dataField)),
			Files:  r.MultipartForm.File[upload.FileField],
		}, nil

	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return writeRequest{}, bodyError(err)
		}
		return writeRequest{Secret: r.PostForm.Get(secretField), Data: []byte(r.PostForm.Get(dataField))}, nil

	case "application/json":
		var body jsonWrite
		dec := json.NewDecoder(r.Body)
		if err := dec.Decode(&body); err != nil {
			return writeRequest{}, bodyError(err)
		}
		return writeRequest{Secret: body.Password, Data: unquote(body.Data)}, nil

	case "":
		// DELETE is often sent without any body
		return writeRequest{}, nil
	}
	return writeRequest{}, domain.Invalid("Content-Type", "unsupported media type "+mt)
}

func bodyError(err error) error {
	var mbe *http.MaxBytesError
	if errors.As(err, &mbe) || strings.Contains(err.Error(), "request body too large") {
		return domain.ErrPayloadTooLarge
	}
	return domain.Invalid("body", "malformed request body")
}

// unquote accepts `data` either as an object or as a JSON-encoded string of one.
func unquote(raw json.RawMessage) []byte {
	var s string
	if len(raw) > 0 && raw[0] == '"' && json.Unmarshal(raw, &s) == nil {
		return []byte(s)
	}
	return raw
}

func decodeData(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return domain.Invalid(dataField, "invalid JSON data")
	}
	return nil
}

func (p createPayload) fields(img *string) domain.ReviewFields {
	return domain.ReviewFields{
		Text:        p.Review,
		Name:        p.ReviewerName,
		Designation: p.ReviewerDesignation,
		Image:       img,
	}
}

func (p updatePayload) patch(img *string) domain.ReviewPatch {
	return domain.ReviewPatch{
		Text:        p.Review,
		Name:        p.ReviewerName,
		Designation: p.ReviewerDesignation,
		Image:       img,
	}
}
