package assessment

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/careflow/careflow/internal/domain/visit"
	"github.com/careflow/careflow/internal/platform/auth"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "radiologist"))
	readGroup.GET("/visits/:id/assessments", h.GetVisitAssessments)

	nursingGroup := api.Group("", auth.RequireRole("admin", "nurse"))
	nursingGroup.POST("/visits/:id/assessments/nursing", h.SubmitNursing)
	nursingGroup.PUT("/visits/:id/assessments/nursing", h.AmendNursing)

	radiologyGroup := api.Group("", auth.RequireRole("admin", "physician", "radiologist"))
	radiologyGroup.POST("/visits/:id/assessments/radiology", h.SubmitRadiology)
}

type nursingRequest struct {
	NursingAssessment
	SubjectAge int `json:"subject_age"`
}

func (h *Handler) SubmitNursing(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req nursingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.SubmitNursingAssessment(c.Request().Context(), visitID, &req.NursingAssessment, req.SubjectAge, actorFromContext(c))
	if err != nil {
		return assessmentHTTPError(err)
	}
	return c.JSON(http.StatusCreated, a)
}

func (h *Handler) AmendNursing(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var req nursingRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	a, err := h.svc.AmendNursingAssessment(c.Request().Context(), visitID, &req.NursingAssessment, req.SubjectAge, actorFromContext(c))
	if err != nil {
		return assessmentHTTPError(err)
	}
	return c.JSON(http.StatusOK, a)
}

func (h *Handler) SubmitRadiology(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	var a RadiologyAssessment
	if err := c.Bind(&a); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.SubmitRadiologyAssessment(c.Request().Context(), visitID, &a, actorFromContext(c))
	if err != nil {
		return assessmentHTTPError(err)
	}
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetVisitAssessments(c echo.Context) error {
	visitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid visit id")
	}
	out, err := h.svc.GetVisitAssessments(c.Request().Context(), visitID)
	if err != nil {
		return assessmentHTTPError(err)
	}
	return c.JSON(http.StatusOK, out)
}

func actorFromContext(c echo.Context) visit.Actor {
	ctx := c.Request().Context()
	id, _ := uuid.Parse(auth.UserIDFromContext(ctx))
	return visit.Actor{
		ID:   id,
		Role: auth.PrimaryRole(auth.RolesFromContext(ctx)),
	}
}

func assessmentHTTPError(err error) error {
	var validation *ValidationError
	switch {
	case errors.Is(err, visit.ErrNotFound), errors.Is(err, ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicate):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, visit.ErrNotOpen):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &validation):
		return echo.NewHTTPError(http.StatusBadRequest, map[string]any{
			"message": "validation failed",
			"errors":  validation.Errors,
		})
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
