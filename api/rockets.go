package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mzotov/astrobooking/internal/domain"
	"github.com/mzotov/astrobooking/internal/service/rockets"
)

type RocketHandler struct {
	service rockets.RocketUseCase
}

type createRocketRequest struct {
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Range    string  `json:"range"`
	Speed    float64 `json:"speed"`
}

type updateRocketRequest struct {
	Name     *string  `json:"name"`
	Capacity *int     `json:"capacity"`
	Speed    *float64 `json:"speed"`
}

type rocketResponse struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Capacity int     `json:"capacity"`
	Range    string  `json:"range,omitempty"`
	Speed    float64 `json:"speed,omitempty"`
}

func NewRocketHandler(service rockets.RocketUseCase) *RocketHandler {
	return &RocketHandler{service: service}
}

func (h *RocketHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.PUT("/:id", h.update)
}

func (h *RocketHandler) create(c *gin.Context) {
	var req createRocketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c, err)
		return
	}

	rocket, err := h.service.Create(c.Request.Context(), rockets.CreateRocketInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		Range:    req.Range,
		Speed:    req.Speed,
	})
	if err != nil {
		writeError(c, err, codeInvalidInput)
		return
	}

	c.JSON(http.StatusCreated, toRocketResponse(rocket))
}

func (h *RocketHandler) list(c *gin.Context) {
	list, err := h.service.List(c.Request.Context(), c.Query("name"))
	if err != nil {
		writeError(c, err, codeInvalidQuery)
		return
	}

	out := make([]rocketResponse, 0, len(list))
	for i := range list {
		out = append(out, toRocketResponse(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

func (h *RocketHandler) get(c *gin.Context) {
	rocket, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err, codeInvalidID)
		return
	}
	if rocket == nil {
		writeNotFound(c, "no rocket with given id")
		return
	}
	c.JSON(http.StatusOK, toRocketResponse(rocket))
}

func (h *RocketHandler) update(c *gin.Context) {
	var req updateRocketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeInvalidJSON(c, err)
		return
	}

	rocket, err := h.service.Update(c.Request.Context(), c.Param("id"), rockets.UpdateRocketInput{
		Name:     req.Name,
		Capacity: req.Capacity,
		Speed:    req.Speed,
	})
	if err != nil {
		writeError(c, err, codeInvalidInput)
		return
	}
	if rocket == nil {
		writeNotFound(c, "no rocket with given id")
		return
	}
	c.JSON(http.StatusOK, toRocketResponse(rocket))
}

func toRocketResponse(r *domain.Rocket) rocketResponse {
	return rocketResponse{
		ID:       r.ID,
		Name:     r.Name,
		Capacity: r.Capacity,
		Range:    string(r.Range),
		Speed:    r.Speed,
	}
}
