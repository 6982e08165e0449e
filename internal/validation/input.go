package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ignatzorin/proposal-backend/internal/models"
)

// Константы валидации
const (
	MinBriefLength  = 50
	MaxBriefLength  = 10000
	DefaultCurrency = "USD"
)

// ValidateBrief проверяет описание задачи от клиента.
// Сообщение об ошибке входит в контракт API и не переводится.
func ValidateBrief(brief string) error {
	if utf8.RuneCountInString(brief) < MinBriefLength {
		return fmt.Errorf("Brief must be at least %d characters", MinBriefLength)
	}
	if utf8.RuneCountInString(brief) > MaxBriefLength {
		return fmt.Errorf("Brief must be at most %d characters", MaxBriefLength)
	}
	return nil
}

// ValidateTemplate проверяет, что шаблон входит в фиксированный список.
func ValidateTemplate(template string) error {
	if _, ok := models.ValidTemplates[template]; !ok {
		return fmt.Errorf("Invalid template")
	}
	return nil
}

// ValidateStatus проверяет, что статус входит в перечисление.
// Переходы между статусами не проверяются.
func ValidateStatus(status string) error {
	if _, ok := models.ValidProposalStatuses[status]; !ok {
		return fmt.Errorf("Invalid status")
	}
	return nil
}

// NormalizeCurrency приводит код валюты к верхнему регистру и подставляет
// USD при пустом значении. Неизвестные ISO-подобные коды не отклоняются.
func NormalizeCurrency(currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return DefaultCurrency
	}
	return currency
}
