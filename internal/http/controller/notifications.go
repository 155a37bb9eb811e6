package controller

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"devhub/internal/config"
	"devhub/internal/domain"
	"devhub/internal/http/dto"
	"devhub/internal/http/resp"
	"devhub/internal/model"
	"devhub/internal/queue"
	"devhub/internal/service/notify"
	"devhub/internal/sse"
)

type Handler struct {
	cfg *config.Config
	svc *notify.Service
	log *zap.Logger
	pub queue.Publisher
}

func NewHandler(cfg *config.Config, svc *notify.Service, logger *zap.Logger, publisher queue.Publisher) *Handler {
	return &Handler{cfg: cfg, svc: svc, log: logger, pub: publisher}
}

func (h *Handler) ListNotifications(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

func (h *Handler) UnreadCount(c *gin.Context) {
	c.JSON(http.StatusOK, dto.UnreadCountResponse{Unread: h.svc.UnreadCount()})
}

func (h *Handler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	created, err := h.svc.Create(c.Request.Context(), req.Payload())
	if err != nil {
		if msg, ok := validationMessage(err); ok {
			c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: msg})
			return
		}
		h.log.Error("create notification failed",
			zap.String("type", req.Type),
			zap.String("title", req.Title),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to create notification"})
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *Handler) PublishNotification(c *gin.Context) {
	var req dto.CreateNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "invalid json"})
		return
	}
	payload := req.Payload()
	if err := domain.ValidatePayload(payload); err != nil {
		msg, _ := validationMessage(err)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: msg})
		return
	}

	body, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("publish payload marshal failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	prefix := h.cfg.RabbitPublishPrefix
	if prefix == "" {
		prefix = "notification"
	}
	routingKey := prefix + "." + payload.Type
	if err := h.pub.Publish(c.Request.Context(), body, routingKey); err != nil {
		h.log.Error("publish notification failed",
			zap.String("type", payload.Type),
			zap.String("title", payload.Title),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to publish notification"})
		return
	}

	c.JSON(http.StatusAccepted, dto.StatusResponse{Code: resp.CodeQueued, Message: "queued"})
}

func (h *Handler) MarkRead(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: resp.CodeBadRequest, Message: "id must be a positive integer"})
		return
	}
	if !h.svc.MarkRead(c.Request.Context(), id) {
		c.JSON(http.StatusNotFound, dto.ErrorResponse{Code: resp.CodeNotFound, Message: "notification not found"})
		return
	}
	c.JSON(http.StatusOK, dto.MarkReadResponse{ID: id, Read: true})
}

func (h *Handler) MarkAllRead(c *gin.Context) {
	updated := h.svc.MarkAllRead(c.Request.Context())
	c.JSON(http.StatusOK, dto.MarkAllReadResponse{Updated: updated})
}

func (h *Handler) History(c *gin.Context) {
	limit := h.cfg.HistoryLimit
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			limit = n
		}
	}
	items, err := h.svc.History(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "failed to list history"})
		return
	}
	if items == nil {
		items = []model.Notification{}
	}
	c.JSON(http.StatusOK, dto.HistoryResponse{Items: items})
}

// SSE streams the full notification list: once on connect and again after
// every change to the registry.
func (h *Handler) SSE(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		h.log.Error("streaming unsupported")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: resp.CodeInternalError, Message: "streaming unsupported"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Header().Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	client := sse.NewClient(16)
	unsubscribe := h.svc.Subscribe(client.Observe)
	defer unsubscribe()
	log := h.log.With(zap.String("client_id", client.ID))
	log.Debug("sse client subscribed")

	var seq uint64 = 1
	if err := sse.WriteSnapshot(c.Writer, seq, h.svc.Snapshot()); err != nil {
		log.Error("write initial snapshot failed", zap.Error(err))
		return
	}
	flusher.Flush()

	heartbeat := time.NewTicker(h.heartbeatInterval())
	defer heartbeat.Stop()

	for {
		select {
		case <-c.Request.Context().Done():
			log.Debug("sse client disconnected")
			return
		case <-heartbeat.C:
			if err := sse.WriteHeartbeat(c.Writer); err != nil {
				log.Error("heartbeat write failed", zap.Error(err))
				return
			}
			flusher.Flush()
		case snapshot := <-client.Ch:
			seq++
			if err := sse.WriteSnapshot(c.Writer, seq, snapshot); err != nil {
				log.Error("write snapshot failed", zap.Error(err))
				return
			}
			flusher.Flush()
		}
	}
}

func (h *Handler) heartbeatInterval() time.Duration {
	if h.cfg.SSEHeartbeat <= 0 {
		return 15 * time.Second
	}
	return h.cfg.SSEHeartbeat
}

func validationMessage(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrMissingTitle):
		return "title is required", true
	case errors.Is(err, domain.ErrInvalidNotificationType):
		return "type must be one of: info, success, warning, error", true
	case errors.Is(err, domain.ErrPayloadTooLarge):
		return "title or message too long", true
	default:
		return "", false
	}
}
