package alert

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/dramaxav/curia-management/internal"
	"github.com/dramaxav/curia-management/internal/auth"
	"github.com/dramaxav/curia-management/internal/transport"
)

type Handler struct {
	*transport.BaseHandler
	Service *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(nil),
		Service:     svc,
	}
}

func (h *Handler) ListProbation(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var praesidiumID *int64
	if v := r.URL.Query().Get("praesidium_id"); v != "" {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid praesidium_id")
			return
		}
		praesidiumID = &parsed
	}

	// praesidium officers only see their own praesidium's alerts
	if !user.IsCouncilOfficer() {
		praesidiumID = user.PraesidiumID
	}

	alerts, err := h.Service.ListProbation(praesidiumID, r.URL.Query().Get("status"))
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
	})
}

func (h *Handler) ListMandates(w http.ResponseWriter, r *http.Request) {
	alerts, err := h.Service.DeriveMandates()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"alerts": alerts,
	})
}

func (h *Handler) Derive(w http.ResponseWriter, r *http.Request) {
	count, err := h.Service.DeriveProbation()
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"derived": count,
	})
}

func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, StatusResolved)
}

func (h *Handler) Ignore(w http.ResponseWriter, r *http.Request) {
	h.settle(w, r, StatusIgnored)
}

func (h *Handler) settle(w http.ResponseWriter, r *http.Request, status string) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	switch status {
	case StatusResolved:
		err = h.Service.Resolve(id, user.ID)
	case StatusIgnored:
		err = h.Service.Ignore(id, user.ID)
	}
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusBadRequest, err.Error())
}
