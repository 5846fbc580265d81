package history

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"hostelpass/internal/middleware"
	"hostelpass/internal/pass"
	"hostelpass/internal/shared/apperror"
	"hostelpass/internal/shared/response"
)

type Handler struct {
	kind    pass.Kind
	service Service
	logger  *zap.Logger
}

func NewHandler(kind pass.Kind, service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named(string(kind) + ".history.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(string(kind) + ".history.handler")
	}
	return &Handler{kind: kind, service: service, logger: l}
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("history request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) GetAll(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.GetAll(c.Request.Context(), act, h.kind)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if pageSize < 1 {
		pageSize = 10
	}

	total := int64(len(resp))
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(resp) {
		start = len(resp)
	}
	if end > len(resp) {
		end = len(resp)
	}

	meta := response.NewPaginationMeta(total, page, pageSize)
	response.Success(c, http.StatusOK, resp[start:end], &meta)
}

func (h *Handler) GetById(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.GetByID(c.Request.Context(), act, h.kind, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) GetByStudent(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.GetByStudent(c.Request.Context(), act, h.kind, c.Param("studentId"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
