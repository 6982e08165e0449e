package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ignatzorin/proposal-backend/internal/dto"
	"github.com/ignatzorin/proposal-backend/internal/models"
	"github.com/ignatzorin/proposal-backend/internal/service"
	"github.com/ignatzorin/proposal-backend/internal/validation"
)

// ProposalService описывает операции сервиса, нужные HTTP слою.
// Интерфейс позволяет тестам подставлять фейковый сервис.
type ProposalService interface {
	Generate(ctx context.Context, ident models.Identity, in service.GenerateInput) (*models.Proposal, error)
	List(ctx context.Context, ident models.Identity) ([]models.ProposalSummary, error)
	Get(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.Proposal, error)
	Update(ctx context.Context, ident models.Identity, id uuid.UUID, body map[string]any) (*models.Proposal, error)
	Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error
	Stats(ctx context.Context, ident models.Identity) (*service.ProposalStats, error)
}

// ProposalHandler отвечает за генерацию и CRUD предложений.
type ProposalHandler struct {
	proposals ProposalService
}

// NewProposalHandler создаёт экземпляр.
func NewProposalHandler(proposals ProposalService) *ProposalHandler {
	return &ProposalHandler{proposals: proposals}
}

// Generate обрабатывает POST /api/generate: проверяет вход, вызывает модель
// и сохраняет результат. Отказ на любом шаге обрывает конвейер.
func (h *ProposalHandler) Generate(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.GenerateProposalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	// Входные гейты до обращения к сервису: короткий brief и неизвестный
	// шаблон не должны создавать ни пользователя, ни запись.
	if err := validation.ValidateBrief(req.Brief); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	if err := validation.ValidateTemplate(req.Template); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	proposal, err := h.proposals.Generate(c.Request.Context(), ident, service.GenerateInput{
		Brief:    req.Brief,
		Template: req.Template,
		Currency: req.Currency,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// List обрабатывает GET /api/proposals: облегчённая проекция, новые сверху.
func (h *ProposalHandler) List(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	summaries, err := h.proposals.List(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// Get обрабатывает GET /api/proposals/:id.
func (h *ProposalHandler) Get(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	proposal, err := h.proposals.Get(c.Request.Context(), ident, id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Update обрабатывает PATCH /api/proposals/:id: частичное обновление по
// явному списку разрешённых полей.
func (h *ProposalHandler) Update(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request body"})
		return
	}

	proposal, err := h.proposals.Update(c.Request.Context(), ident, id, body)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, proposal)
}

// Delete обрабатывает DELETE /api/proposals/:id. Удаление жёсткое.
func (h *ProposalHandler) Delete(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid id parameter"})
		return
	}

	if err := h.proposals.Delete(c.Request.Context(), ident, id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DeleteResponse{Success: true})
}

// Stats обрабатывает GET /api/stats: количество предложений по статусам
// для дашборда.
func (h *ProposalHandler) Stats(c *gin.Context) {
	ident, err := currentIdentity(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	stats, err := h.proposals.Stats(c.Request.Context(), ident)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}
