package handler

import (
	"errors"
	"mime"
	"net/http"
	"net/url"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"loyaltyclub/internal/gotrue"
)

const (
	maxFormBytes  = 1 << 20
	maxFormMemory = 32 << 10
)

// Rejection is a validation failure shown to the user verbatim.
type Rejection struct {
	Message string
}

func (r *Rejection) Error() string {
	return r.Message
}

func reject(msg string) error {
	return &Rejection{Message: msg}
}

func isRejection(err error) bool {
	var rej *Rejection
	return errors.As(err, &rej)
}

// userMessage picks the text placed in the error query parameter.
func userMessage(err error) string {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Message
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Message
	}
	var apiErr *gotrue.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}

// readForm accepts both multipart/form-data and application/x-www-form-urlencoded bodies.
// Callers own r.MultipartForm and must remove its temporary files.
func readForm(w http.ResponseWriter, r *http.Request) (url.Values, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(maxFormMemory); err != nil {
			return nil, err
		}
	} else if err := r.ParseForm(); err != nil {
		return nil, err
	}

	if r.PostForm == nil {
		return url.Values{}, nil
	}
	return r.PostForm, nil
}

// field returns the trimmed value of name.
func field(form url.Values, name string) string {
	return strings.TrimSpace(form.Get(name))
}

// present reports whether v has anything besides whitespace.
func present(v string) bool {
	return strings.TrimSpace(v) != ""
}
