package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/api/metrics"
	"github.com/labourshub/marketplace/internal/core/domain"
	"github.com/labourshub/marketplace/internal/core/ports"
)

// JobHandler exposes the hire workflow.
type JobHandler struct {
	jobService ports.JobService
}

func NewJobHandler(jobService ports.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

type hireResponse struct {
	Message string      `json:"message"`
	Job     *domain.Job `json:"job"`
}

// Hire handles POST /api/hire/:labourId (customers only).
//
// @Summary      Send a hire request to a labour
// @Tags         jobs
// @Produce      json
// @Param        labourId  path      string  true  "Labour user id"
// @Success      200       {object}  hireResponse
// @Failure      401       {object}  map[string]string
// @Failure      403       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/hire/{labourId} [post]
func (h *JobHandler) Hire(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	job, err := h.jobService.CreateHire(c.Request().Context(), session.UserID, c.Param("labourId"))
	if err != nil {
		return err
	}

	metrics.JobsCreatedTotal.Inc()
	return c.JSON(http.StatusOK, hireResponse{Message: "Hire request sent", Job: job})
}

// List handles GET /api/jobs (labours only): the labour's incoming hire
// requests with the customer contact populated, newest first.
//
// @Summary      List incoming hire requests
// @Tags         jobs
// @Produce      json
// @Success      200  {array}   domain.JobWithCustomer
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/jobs [get]
func (h *JobHandler) List(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	jobs, err := h.jobService.ListForLabour(c.Request().Context(), session.UserID)
	if err != nil {
		return err
	}
	if jobs == nil {
		jobs = []*domain.JobWithCustomer{}
	}
	return c.JSON(http.StatusOK, jobs)
}

type updateJobRequest struct {
	Status string `json:"status" validate:"required,oneof=accepted rejected"`
}

type updateJobResponse struct {
	Job *domain.Job `json:"job"`
}

// UpdateStatus handles PUT /api/jobs/:id (labours only). Only the labour the
// job references may transition it, and only while it is pending.
//
// @Summary      Accept or reject a hire request
// @Tags         jobs
// @Accept       json
// @Produce      json
// @Param        id    path      string            true  "Job id"
// @Param        body  body      updateJobRequest  true  "New status"
// @Success      200   {object}  updateJobResponse
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/jobs/{id} [put]
func (h *JobHandler) UpdateStatus(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}

	var req updateJobRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	job, err := h.jobService.SetStatus(c.Request().Context(), c.Param("id"), session.UserID, req.Status)
	if err != nil {
		return err
	}

	metrics.JobTransitionsTotal.WithLabelValues(string(job.Status)).Inc()
	return c.JSON(http.StatusOK, updateJobResponse{Job: job})
}
