package pass

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hostelpass/internal/middleware"
	"hostelpass/internal/shared/apperror"
	"hostelpass/internal/shared/response"
)

// Handler serves one kind; the API mounts one instance under /leaves and one
// under /outings.
type Handler struct {
	kind    Kind
	service Service
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(kind Kind, service Service, logger ...*zap.Logger) *Handler {
	l := zap.L().Named(string(kind) + ".handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named(string(kind) + ".handler")
	}
	return &Handler{kind: kind, service: service, logger: l}
}

// NewHandlerWithRedis wires the redis client used to finish the idempotency
// protocol started by middleware.Idempotency on the create route.
func NewHandlerWithRedis(kind Kind, service Service, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(kind, service, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("pass request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Create(c *gin.Context) {
	act := middleware.Actor(c)
	h.logger.Debug("http create pass", zap.String("kind", string(h.kind)), zap.String("actor_id", act.ID.String()))

	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var in CreateInput
	if h.kind == KindOuting {
		var req CreateOutingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http create pass validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}
		in = req.toInput()
	} else {
		var req CreateLeaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http create pass validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}
		in = req.toInput()
	}

	resp, err := h.service.Create(c.Request.Context(), act, h.kind, in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	if h.rdb != nil {
		if ck, ok := cacheKey.(string); ok && ck != "" {
			if payload, marshalErr := json.Marshal(resp); marshalErr == nil {
				_ = h.rdb.Set(c.Request.Context(), ck, payload, 24*time.Hour).Err()
			}
		}
	}

	response.Success(c, http.StatusCreated, resp, nil)
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

func (h *Handler) GetPending(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.PendingQueue(c.Request.Context(), act, h.kind)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
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

func (h *Handler) Update(c *gin.Context) {
	act := middleware.Actor(c)
	id := c.Param("id")

	var in StudentUpdateInput
	if h.kind == KindOuting {
		var req UpdateOutingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http update pass validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}
		in = req.toInput()
	} else {
		var req UpdateLeaveRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http update pass validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}
		in = req.toInput()
	}

	resp, err := h.service.StudentUpdate(c.Request.Context(), act, h.kind, id, in)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Decide(c *gin.Context) {
	act := middleware.Actor(c)
	id := c.Param("id")

	var req DecideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http decide pass validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Decide(c.Request.Context(), act, h.kind, id, DecideInput{
		Status:  req.Status,
		Remarks: req.Remarks,
	})
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RecordDeparture(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.RecordDeparture(c.Request.Context(), act, h.kind, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) RecordReturn(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.RecordReturn(c.Request.Context(), act, h.kind, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	act := middleware.Actor(c)

	if err := h.service.Delete(c.Request.Context(), act, h.kind, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}
