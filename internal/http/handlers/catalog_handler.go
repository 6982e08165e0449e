package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/proposal-backend/internal/models"
)

// CatalogHandler отдаёт справочники для первого шага мастера создания:
// список шаблонов и список валют.
type CatalogHandler struct{}

// NewCatalogHandler создаёт экземпляр.
func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// ListTemplates обрабатывает GET /api/templates.
func (h *CatalogHandler) ListTemplates(c *gin.Context) {
	c.JSON(http.StatusOK, models.TemplateCatalog)
}

// ListCurrencies обрабатывает GET /api/currencies.
func (h *CatalogHandler) ListCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, models.CurrencyCatalog)
}
