package http

import (
	"encoding/json"
	stdhttp "net/http"

	perr "hashjudge/internal/platform/errors"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// Envelope wraps every JSON body the API writes
type Envelope struct {
	StatusCode int        `json:"status_code"`
	RequestID  string     `json:"request_id,omitempty"`
	Data       any        `json:"data,omitempty"`
	Error      *perr.Wire `json:"error,omitempty"`
}

// JSON writes v with status
func JSON(w stdhttp.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes err as an envelope with its mapped status
func WriteError(w stdhttp.ResponseWriter, r *stdhttp.Request, err error) {
	status := perr.HTTPStatus(err)
	wire := perr.WireFrom(err)
	if status >= stdhttp.StatusInternalServerError && perr.CodeOf(err) == perr.ErrorCodeUnknown {
		// foreign error text stays in the logs
		wire.Message = stdhttp.StatusText(status)
	}
	JSON(w, status, Envelope{
		StatusCode: status,
		RequestID:  chimw.GetReqID(r.Context()),
		Error:      &wire,
	})
}

// Response is what return-style handlers produce
type Response struct {
	Status int
	Data   any
	Err    error
}

// OK wraps data in a 200
func OK(data any) Response { return Response{Status: stdhttp.StatusOK, Data: data} }

// Error defers status selection to the error code
func Error(err error) Response { return Response{Err: err} }

// Handle adapts a Response-returning func to net/http
func Handle(fn func(*stdhttp.Request) Response) stdhttp.HandlerFunc {
	return func(w stdhttp.ResponseWriter, r *stdhttp.Request) {
		res := fn(r)
		if res.Err != nil {
			WriteError(w, r, res.Err)
			return
		}
		status := res.Status
		if status == 0 {
			status = stdhttp.StatusOK
		}
		JSON(w, status, Envelope{
			StatusCode: status,
			RequestID:  chimw.GetReqID(r.Context()),
			Data:       res.Data,
		})
	}
}
