// Package http exposes scoring over JSON
package http

import (
	stdhttp "net/http"

	"hashjudge/internal/modkit/httpkit"
	"hashjudge/internal/services/score/domain"
)

// Register mounts POST /score, POST /score/batch and GET /model
func Register(r httpkit.Router, s domain.ServicePort) {
	h := &handlers{svc: s}
	httpkit.PostJSON(r, "/score", h.score)
	httpkit.PostJSON(r, "/score/batch", h.batch)
	httpkit.Get(r, "/model", h.model)
}

type handlers struct{ svc domain.ServicePort }

func (h *handlers) score(r *stdhttp.Request, in domain.ScoreInput) (any, error) {
	return h.svc.Score(r.Context(), in)
}

func (h *handlers) batch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	return h.svc.ScoreBatch(r.Context(), in)
}

func (h *handlers) model(r *stdhttp.Request) (any, error) {
	return h.svc.Model(r.Context())
}
