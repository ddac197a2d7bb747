package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/service/booking"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	FlightID          string `json:"flightId"`
	PassengerName     string `json:"passengerName"`
	PassengerDocument string `json:"passengerDocument"`
}

type bookingResponse struct {
	ID                string  `json:"id"`
	FlightID          string  `json:"flightId"`
	PassengerName     string  `json:"passengerName"`
	PassengerDocument string  `json:"passengerDocument"`
	DiscountPercent   int     `json:"discountPercent"`
	FinalPrice        float64 `json:"finalPrice"`
	CreatedAt         string  `json:"createdAt"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.listByFlight)
	router.GET("/:id", h.get)
}

func (h *BookingHandler) create(c *gin.Context) {
	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c, err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), booking.CreateBookingInput{
		FlightID:          req.FlightID,
		PassengerName:     req.PassengerName,
		PassengerDocument: req.PassengerDocument,
	})
	if err != nil {
		writeError(c, err, codeInvalidInput)
		return
	}

	c.JSON(http.StatusCreated, toBookingResponse(created))
}

func (h *BookingHandler) listByFlight(c *gin.Context) {
	list, err := h.service.ListByFlight(c.Request.Context(), c.Query("flightId"))
	if err != nil {
		writeError(c, err, codeInvalidQuery)
		return
	}

	out := make([]bookingResponse, 0, len(list))
	for i := range list {
		out = append(out, toBookingResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *BookingHandler) get(c *gin.Context) {
	found, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, codeInvalidID)
		return
	}
	if found == nil {
		writeNotFound(c, "no booking with given id")
		return
	}
	c.JSON(http.StatusOK, toBookingResponse(found))
}

func toBookingResponse(b *domain.Booking) bookingResponse {
	return bookingResponse{
		ID:                b.ID,
		FlightID:          b.FlightID,
		PassengerName:     b.PassengerName,
		PassengerDocument: b.PassengerDocument,
		DiscountPercent:   b.DiscountPercent,
		FinalPrice:        b.FinalPrice,
		CreatedAt:         b.CreatedAt.Format(time.RFC3339),
	}
}
