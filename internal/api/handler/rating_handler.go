package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/labourshub/marketplace/internal/api/metrics"
	"github.com/labourshub/marketplace/internal/core/ports"
)

// RatingHandler accepts ratings for labour workers.
type RatingHandler struct {
	userService ports.UserService
}

func NewRatingHandler(userService ports.UserService) *RatingHandler {
	return &RatingHandler{userService: userService}
}

type rateRequest struct {
	Rating int `json:"rating"`
}

type rateResponse struct {
	Message string  `json:"message"`
	Rating  float64 `json:"rating"`
}

// Rate handles POST /api/rate/:labourId (customers only). The score must be
// in [1,5]; the response carries the labour's new aggregate.
//
// @Summary      Rate a labour worker
// @Tags         ratings
// @Accept       json
// @Produce      json
// @Param        labourId  path      string       true  "Labour user id"
// @Param        body      body      rateRequest  true  "Score 1-5"
// @Success      200       {object}  rateResponse
// @Failure      400       {object}  map[string]string
// @Failure      404       {object}  map[string]string
// @Router       /api/rate/{labourId} [post]
func (h *RatingHandler) Rate(c echo.Context) error {
	if _, err := ctxSession(c); err != nil {
		return err
	}

	var req rateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	aggregate, err := h.userService.SubmitRating(c.Request().Context(), c.Param("labourId"), req.Rating)
	if err != nil {
		return err
	}

	metrics.RatingsSubmittedTotal.Inc()
	return c.JSON(http.StatusOK, rateResponse{Message: "Rating submitted", Rating: aggregate})
}
