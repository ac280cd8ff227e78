package visit

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/platform/auth"
	"github.com/careflow/careflow/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	// Read endpoints – any clinical role
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "radiologist"))
	readGroup.GET("/visits", h.ListVisits)
	readGroup.GET("/visits/recent", h.ListRecent)
	readGroup.GET("/visits/today", h.ListToday)
	readGroup.GET("/visits/open-count", h.CountOpen)
	readGroup.GET("/visits/:id", h.GetVisit)
	readGroup.GET("/visits/:id/status-history", h.GetStatusHistory)
	readGroup.GET("/patients/:patient_id/visits", h.ListByPatient)

	// Write endpoints admit any role the transition policy is configured to
	// accept; the per-edge decision stays with the policy.
	writeRoles := append(h.svc.policy.ForwardRoles(), h.svc.policy.ReopenRoles()...)
	writeGroup := api.Group("", auth.RequireRole(writeRoles...))
	writeGroup.POST("/visits", h.CreateVisit)
	writeGroup.PUT("/visits/:id", h.UpdateVisit)
	writeGroup.PATCH("/visits/:id/status", h.TransitionVisit)
	writeGroup.POST("/visits/:id/complete", h.CompleteVisit)
	writeGroup.POST("/visits/:id/cancel", h.CancelVisit)
	writeGroup.POST("/visits/:id/reopen", h.ReopenVisit)
}

type createVisitRequest struct {
	PatientID      uuid.UUID `json:"patient_id"`
	VisitDate      time.Time `json:"visit_date"`
	ChiefComplaint *string   `json:"chief_complaint"`
	Notes          *string   `json:"notes"`
}

type updateVisitRequest struct {
	ChiefComplaint *string `json:"chief_complaint"`
	Notes          *string `json:"notes"`
}

type transitionRequest struct {
	Status Status `json:"status"`
}

func (h *Handler) CreateVisit(c echo.Context) error {
	var req createVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v := &Visit{
		PatientID:      req.PatientID,
		VisitDate:      req.VisitDate,
		ChiefComplaint: req.ChiefComplaint,
		Notes:          req.Notes,
	}
	if err := h.svc.Create(c.Request().Context(), v, actorFromContext(c)); err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusCreated, v)
}

func (h *Handler) GetVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) ListVisits(c echo.Context) error {
	status := Status(c.QueryParam("status"))
	if status == "" {
		status = StatusOpen
	}
	if !ValidStatus(status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	pg := pagination.FromContext(c)
	visits, total, err := h.svc.ListByStatus(c.Request().Context(), status, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListByPatient(c echo.Context) error {
	patientID, err := uuid.Parse(c.Param("patient_id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid patient id")
	}
	pg := pagination.FromContext(c)
	visits, total, err := h.svc.ListByPatient(c.Request().Context(), patientID, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(visits, total, pg.Limit, pg.Offset))
}

func (h *Handler) ListRecent(c echo.Context) error {
	pg := pagination.FromContext(c)
	visits, err := h.svc.ListRecent(c.Request().Context(), pg.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"visits": visits})
}

func (h *Handler) ListToday(c echo.Context) error {
	visits, err := h.svc.ListToday(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]any{"visits": visits})
}

func (h *Handler) CountOpen(c echo.Context) error {
	count, err := h.svc.CountOpen(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, map[string]int{"open_visits": count})
}

func (h *Handler) UpdateVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req updateVisitRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	v, err := h.svc.Update(c.Request().Context(), id, req.ChiefComplaint, req.Notes, actorFromContext(c))
	if err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) TransitionVisit(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req transitionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if !ValidStatus(req.Status) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid status")
	}
	v, err := h.svc.RequestTransition(c.Request().Context(), id, req.Status, actorFromContext(c))
	if err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) CompleteVisit(c echo.Context) error {
	return h.transitionShortcut(c, h.svc.Complete)
}

func (h *Handler) CancelVisit(c echo.Context) error {
	return h.transitionShortcut(c, h.svc.Cancel)
}

func (h *Handler) ReopenVisit(c echo.Context) error {
	return h.transitionShortcut(c, h.svc.Reopen)
}

func (h *Handler) transitionShortcut(c echo.Context, fn func(ctx context.Context, id uuid.UUID, actor Actor) (*Visit, error)) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	v, err := fn(c.Request().Context(), id, actorFromContext(c))
	if err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusOK, v)
}

func (h *Handler) GetStatusHistory(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	history, err := h.svc.GetStatusHistory(c.Request().Context(), id)
	if err != nil {
		return visitHTTPError(err)
	}
	return c.JSON(http.StatusOK, map[string]any{"history": history})
}

func actorFromContext(c echo.Context) Actor {
	ctx := c.Request().Context()
	// Dev-mode user ids are not UUIDs; they map to the nil id.
	id, _ := uuid.Parse(auth.UserIDFromContext(ctx))
	return Actor{
		ID:   id,
		Role: auth.PrimaryRole(auth.RolesFromContext(ctx)),
	}
}

// visitHTTPError maps domain errors onto HTTP statuses. PreconditionFailed
// and InvalidTransition both render as 422 so clients can distinguish "fix
// your request" from the 409 returned for lost concurrent races.
func visitHTTPError(err error) error {
	var (
		invalid      *InvalidTransitionError
		precondition *PreconditionFailedError
		forbidden    *ForbiddenError
	)
	switch {
	case errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "visit not found")
	case errors.Is(err, ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, map[string]any{
			"message":   "visit was modified concurrently, retry",
			"retryable": true,
		})
	case errors.Is(err, ErrNotOpen):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &invalid):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"message": invalid.Error(),
			"from":    invalid.From,
			"to":      invalid.To,
		})
	case errors.As(err, &precondition):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, map[string]any{
			"message": precondition.Error(),
			"missing": precondition.Missing,
		})
	case errors.As(err, &forbidden):
		return echo.NewHTTPError(http.StatusForbidden, forbidden.Error())
	default:
		// Anything not in the domain taxonomy is a server fault
		// (wrapped repository errors and the like).
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
