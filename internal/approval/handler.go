package approval

import (
	"encoding/json"
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

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	var dto SubmitDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	request, err := h.Service.Submit(user.ID, dto)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, request)
}

func (h *Handler) ListPending(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	kind := r.URL.Query().Get("kind")

	requests, err := h.Service.ListPending(kind, limit, offset)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"approvals": requests,
		"limit":     limit,
		"offset":    offset,
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := requestID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid approval id")
		return
	}

	request, err := h.Service.GetByID(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionApprove)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.decide(w, r, DecisionReject)
}

func (h *Handler) decide(w http.ResponseWriter, r *http.Request, decision string) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.WriteError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	id, err := requestID(r)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid approval id")
		return
	}

	// the permission that gates a decision depends on the stored kind,
	// so the route middleware only pre-filters approver postes; the
	// kind-matched check happens here, outside the engine
	request, err := h.Service.GetByID(id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	required, ok := RequiredPermission(request.Kind)
	if !ok || !auth.Allowed(user, required, nil) {
		h.writeServiceError(w, internal.ErrUnauthorizedAccess.WithDetails(map[string]interface{}{
			"user_id":             user.ID,
			"poste":               user.Poste,
			"required_permission": string(required),
		}))
		return
	}

	var dto DecideDTO
	if r.Body != nil {
		// decision body is optional on approval
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	request, err = h.Service.Decide(id, decision, user, dto.Comment)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, request)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	if appErr, ok := internal.IsAppError(err); ok {
		status, body := appErr.ToHTTPResponse()
		h.WriteJSON(w, status, body)
		return
	}
	h.WriteError(w, http.StatusBadRequest, err.Error())
}

func requestID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

func pagination(r *http.Request) (limit, offset int) {
	limit = 20
	offset = 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
			offset = parsed
		}
	}
	return limit, offset
}
