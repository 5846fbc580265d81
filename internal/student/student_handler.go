package student

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"hostelpass/internal/media"
	"hostelpass/internal/middleware"
	"hostelpass/internal/shared/apperror"
	"hostelpass/internal/shared/response"
)

type Handler struct {
	service Service
	images  media.Store
	rdb     *redis.Client
	logger  *zap.Logger
}

func NewHandler(service Service, images media.Store, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("student.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("student.handler")
	}
	return &Handler{service: service, images: images, logger: l}
}

// NewHandlerWithRedis wires the redis client used to finish the idempotency
// protocol started by middleware.Idempotency on the create route.
func NewHandlerWithRedis(service Service, images media.Store, rdb *redis.Client, logger ...*zap.Logger) *Handler {
	h := NewHandler(service, images, logger...)
	h.rdb = rdb
	return h
}

func (h *Handler) writeServiceError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("student request failed",
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

	lockKey, _ := c.Get("idempotency_lock_key")
	cacheKey, _ := c.Get("idempotency_cache_key")
	if h.rdb != nil {
		if lk, ok := lockKey.(string); ok && lk != "" {
			defer h.rdb.Del(c.Request.Context(), lk)
		}
	}

	var req CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http create student validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Create(c.Request.Context(), act, req)
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

func (h *Handler) BulkCreate(c *gin.Context) {
	act := middleware.Actor(c)

	var req BulkCreateStudentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk create students validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.BulkCreate(c.Request.Context(), act, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, resp, nil)
}

func (h *Handler) GetAll(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.GetAll(c.Request.Context(), act)
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

	resp, err := h.service.GetByID(c.Request.Context(), act, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Update(c *gin.Context) {
	act := middleware.Actor(c)
	id := c.Param("id")

	// Students edit their own constrained subset; admins edit everything.
	if act.IsStudent() {
		var req SelfUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			h.logger.Warn("http self update student validation failed", zap.Error(err))
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
			return
		}

		resp, err := h.service.SelfUpdate(c.Request.Context(), act, id, req)
		if err != nil {
			h.writeServiceError(c, err)
			return
		}

		response.Success(c, http.StatusOK, resp, nil)
		return
	}

	var req UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http update student validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.Update(c.Request.Context(), act, id, req)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) UploadImage(c *gin.Context) {
	act := middleware.Actor(c)
	id := c.Param("id")

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Image file is required", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, media.MaxImageSize+1))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Could not read image", nil)
		return
	}

	path, err := h.images.StoreImage(data, header.Header.Get("Content-Type"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	var resp StudentResponse
	if act.IsStudent() {
		resp, err = h.service.SelfUpdate(c.Request.Context(), act, id, SelfUpdateRequest{Image: &path})
	} else {
		resp, err = h.service.Update(c.Request.Context(), act, id, UpdateStudentRequest{Image: &path})
	}
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) Delete(c *gin.Context) {
	act := middleware.Actor(c)

	if err := h.service.Delete(c.Request.Context(), act, c.Param("id")); err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"deleted": true}, nil)
}

func (h *Handler) UpgradeYear(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.UpgradeYear(c.Request.Context(), act, c.Param("id"))
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) BulkUpgradeYear(c *gin.Context) {
	act := middleware.Actor(c)

	var req BulkUpgradeYearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http bulk upgrade year validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid input", err.Error())
		return
	}

	resp, err := h.service.BulkUpgradeYear(c.Request.Context(), act, req.Year)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetOutingQuota(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.ResetOutingQuota(c.Request.Context(), act)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) ResetLeaveQuota(c *gin.Context) {
	act := middleware.Actor(c)

	resp, err := h.service.ResetLeaveQuota(c.Request.Context(), act)
	if err != nil {
		h.writeServiceError(c, err)
		return
	}

	response.Success(c, http.StatusOK, resp, nil)
}
