package handlers

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"lina-ai/internal/dto"
	"lina-ai/internal/models"
	"lina-ai/internal/repository"
	"lina-ai/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const auditWriteTimeout = 5 * time.Second

type QueryHandler struct {
	router    *service.RouterService
	auditRepo *repository.QueryLogRepository // nil when auditing is disabled
	logger    *zap.Logger
}

func NewQueryHandler(router *service.RouterService, auditRepo *repository.QueryLogRepository, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		router:    router,
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// ProcessQuery godoc
// @Summary Route a financial query
// @Description Classifies a free-text query into a money-movement confirmation, a proactive insight-backed chat reply, or a plain conversational reply
// @Tags ai
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "Query and financial snapshot"
// @Success 200 {object} dto.ResponseEnvelope
// @Failure 400 {object} dto.ResponseEnvelope
// @Router /api/ai/query [post]
func (h *QueryHandler) ProcessQuery(c *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ResponseEnvelope{
			Success: false,
			Error:   "Invalid request body.",
		})
	}

	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ResponseEnvelope{
			Success: false,
			Error:   "Query cannot be empty.",
		})
	}

	env := h.router.ProcessQuery(c.UserContext(), req.Query, &req.UserContext)

	h.audit(req.Query, env)

	return c.JSON(env)
}

// Health godoc
// @Summary Service health check
// @Tags ops
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *QueryHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// audit writes the routed request to the audit trail, detached from the
// request lifecycle. Failures are logged and swallowed so auditing can never
// change a routing outcome.
func (h *QueryHandler) audit(query string, env *dto.ResponseEnvelope) {
	if h.auditRepo == nil {
		return
	}

	entry := &models.QueryLog{
		ID:        uuid.New(),
		Query:     query,
		Action:    auditAction(env),
		Success:   env.Success,
		Response:  auditResponse(env),
		CreatedAt: time.Now().UTC(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), auditWriteTimeout)
		defer cancel()
		if err := h.auditRepo.Create(ctx, entry); err != nil {
			h.logger.Warn("Failed to write audit entry", zap.Error(err))
		}
	}()
}

func auditAction(env *dto.ResponseEnvelope) string {
	if conf, ok := env.Response.(*dto.ActionConfirmation); ok {
		return conf.Action
	}
	return "chat"
}

func auditResponse(env *dto.ResponseEnvelope) string {
	switch resp := env.Response.(type) {
	case string:
		return resp
	case *dto.ActionConfirmation:
		data, err := json.Marshal(resp)
		if err != nil {
			return ""
		}
		return string(data)
	default:
		return ""
	}
}
