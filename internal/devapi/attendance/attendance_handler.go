package attendance

import (
	"net/http"

	"go-hrm/internal/shared/apperror"
	"go-hrm/internal/shared/response"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) TodayStatus(c *gin.Context) {
	resp, err := h.service.TodayStatus(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) CheckIn(c *gin.Context) {
	resp, err := h.service.CheckIn(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) CheckOut(c *gin.Context) {
	resp, err := h.service.CheckOut(c.Request.Context(), c.GetString("user_id"))
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) History(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.WriteError(c, apperror.MapValidationError(err))
		return
	}

	rows, meta, err := h.service.History(c.Request.Context(), c.GetString("user_id"), q)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Attendances: rows}, &meta)
}

func (h *Handler) AllUsers(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.WriteError(c, apperror.MapValidationError(err))
		return
	}

	rows, meta, err := h.service.AllUsers(c.Request.Context(), q)
	if err != nil {
		response.WriteError(c, err)
		return
	}
	response.Success(c, http.StatusOK, ListResponse{Attendances: rows}, &meta)
}
