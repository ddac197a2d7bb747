package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/service/flights"
)

type FlightHandler struct {
	service flights.FlightUseCase
}

type createFlightRequest struct {
	RocketID          string    `json:"rocketId"`
	LaunchDateTime    time.Time `json:"launchDateTime"`
	BasePrice         float64   `json:"basePrice"`
	MinimumPassengers int       `json:"minimumPassengers"`
}

type flightResponse struct {
	ID                string  `json:"id"`
	RocketID          string  `json:"rocketId"`
	LaunchDateTime    string  `json:"launchDateTime"`
	BasePrice         float64 `json:"basePrice"`
	MinimumPassengers int     `json:"minimumPassengers"`
	State             string  `json:"state"`
}

func NewFlightHandler(service flights.FlightUseCase) *FlightHandler {
	return &FlightHandler{service: service}
}

func (h *FlightHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.POST("/:id/cancel", h.cancel)
}

func (h *FlightHandler) create(c *gin.Context) {
	var req createFlightRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c, err)
		return
	}

	flight, err := h.service.Create(c.Request.Context(), flights.CreateFlightInput{
		RocketID:          req.RocketID,
		LaunchDateTime:    req.LaunchDateTime,
		BasePrice:         req.BasePrice,
		MinimumPassengers: req.MinimumPassengers,
	})
	if err != nil {
		writeError(c, err, codeInvalidInput)
		return
	}

	c.JSON(http.StatusCreated, toFlightResponse(flight))
}

func (h *FlightHandler) list(c *gin.Context) {
	var stateFilter *domain.FlightState
	if raw := c.Query("state"); raw != "" {
		state, ok := domain.ParseFlightState(raw)
		if !ok {
			writeError(c, domain.NewValidationError("state", "Unsupported state value"), codeInvalidQuery)
			return
		}
		stateFilter = &state
	}

	list, err := h.service.ListFuture(c.Request.Context(), stateFilter)
	if err != nil {
		writeError(c, err, codeInvalidQuery)
		return
	}

	out := make([]flightResponse, 0, len(list))
	for i := range list {
		out = append(out, toFlightResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *FlightHandler) get(c *gin.Context) {
	flight, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, codeInvalidID)
		return
	}
	if flight == nil {
		writeNotFound(c, "no flight with given id")
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func (h *FlightHandler) cancel(c *gin.Context) {
	flight, err := h.service.CancelByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, codeInvalidID)
		return
	}
	if flight == nil {
		writeNotFound(c, "no flight with given id")
		return
	}
	c.JSON(http.StatusOK, toFlightResponse(flight))
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:                f.ID,
		RocketID:          f.RocketID,
		LaunchDateTime:    f.LaunchDateTime.Format(time.RFC3339),
		BasePrice:         f.BasePrice,
		MinimumPassengers: f.MinimumPassengers,
		State:             string(f.State),
	}
}
