// Package bind decodes and validates JSON request bodies
package bind

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "hashjudge/internal/platform/errors"
	"hashjudge/internal/platform/validate"
)

// MaxBytes caps a request body; a full 512 text batch fits with room to spare
const MaxBytes = 8 << 20

// ParseJSON decodes exactly one JSON value into T, rejects unknown fields and
// runs the struct validator over the result
func ParseJSON[T any](r *http.Request) (T, error) {
	var zero, dst T
	if r.Body == nil || r.Body == http.NoBody {
		return zero, perr.JSONErrf("empty body")
	}
	defer func() { _ = r.Body.Close() }()

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, MaxBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return zero, perr.JSONErrf("empty body")
		case errors.As(err, &tooBig):
			return zero, perr.JSONErrf("body exceeds %d bytes", tooBig.Limit)
		}
		return zero, perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return zero, perr.JSONErrf("unexpected trailing data")
	}

	if field, msg, ok := validate.Struct(dst); !ok {
		return zero, perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
	}
	return dst, nil
}
