package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposal-backend/internal/dto"
	"github.com/ignatzorin/proposal-backend/internal/http/middleware"
	"github.com/ignatzorin/proposal-backend/internal/logger"
	"github.com/ignatzorin/proposal-backend/internal/models"
	"github.com/ignatzorin/proposal-backend/internal/pkg/apperror"
)

var errIdentityNotFound = errors.New("личность не найдена в контексте")

// currentIdentity извлекает внешнюю личность из контекста.
func currentIdentity(c *gin.Context) (models.Identity, error) {
	raw, exists := c.Get(middleware.ContextIdentityKey)
	if !exists {
		return models.Identity{}, errIdentityNotFound
	}

	ident, ok := raw.(models.Identity)
	if !ok {
		return models.Identity{}, errIdentityNotFound
	}

	return ident, nil
}

// respondError переводит ошибку сервиса в HTTP ответ. AppError несёт статус
// и сообщение сам; всё остальное схлопывается в общий 500, причина остаётся
// в логах.
func respondError(c *gin.Context, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus >= http.StatusInternalServerError {
			logError(c, err)
		}
		c.JSON(appErr.HTTPStatus, dto.ErrorResponse{Error: appErr.Message})
		return
	}

	logError(c, err)
	c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Internal server error"})
}

// logError пишет причину ошибки для оператора.
func logError(c *gin.Context, err error) {
	logger.WithComponent("http").WithFields(logrus.Fields{
		"path":   c.Request.URL.Path,
		"method": c.Request.Method,
	}).WithError(err).Error("ошибка обработки запроса")
}
