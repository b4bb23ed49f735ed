// Package http provides http transport for documents
package http

import (
	stdhttp "net/http"

	"quill/internal/modkit/httpkit"
	"quill/internal/services/api/documents/domain"
	svc "quill/internal/services/api/documents/service"
)

// Register mounts documents endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CheckInput](r, "/check", h.check)
	httpkit.PostJSON[domain.HumanizeInput](r, "/humanize", h.humanize)
	httpkit.PostJSON[domain.HistoryInput](r, "/history/checks", h.historyChecks)
	httpkit.PostJSON[domain.HistoryInput](r, "/history/humanizes", h.historyHumanizes)
}

type handlers struct{ svc svc.Service }

// swagger:route POST /documents/check Documents documentsCheck
// @Summary Score a document for AI likelihood
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.CheckInput true "Document"
// @Success 200 {object} pipedom.CheckResult "ok"
// @Router /documents/check [post]
func (h *handlers) check(r *stdhttp.Request, in domain.CheckInput) (any, error) {
	return h.svc.Check(r.Context(), in)
}

// swagger:route POST /documents/humanize Documents documentsHumanize
// @Summary Rewrite the AI flagged chunks of a document
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.HumanizeInput true "Document and mode"
// @Success 200 {object} pipedom.HumanizeResult "ok"
// @Router /documents/humanize [post]
func (h *handlers) humanize(r *stdhttp.Request, in domain.HumanizeInput) (any, error) {
	return h.svc.Humanize(r.Context(), in)
}

// swagger:route POST /documents/history/checks Documents documentsHistoryChecks
// @Summary Recent check runs
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.HistoryInput true "Filters"
// @Success 200 {array} domain.CheckRecord "ok"
// @Router /documents/history/checks [post]
func (h *handlers) historyChecks(r *stdhttp.Request, in domain.HistoryInput) (any, error) {
	return h.svc.RecentChecks(r.Context(), in)
}

// swagger:route POST /documents/history/humanizes Documents documentsHistoryHumanizes
// @Summary Recent humanize runs
// @Tags Documents
// @Accept json
// @Produce json
// @Param payload body domain.HistoryInput true "Filters"
// @Success 200 {array} domain.HumanizeRecord "ok"
// @Router /documents/history/humanizes [post]
func (h *handlers) historyHumanizes(r *stdhttp.Request, in domain.HistoryInput) (any, error) {
	return h.svc.RecentHumanizes(r.Context(), in)
}
