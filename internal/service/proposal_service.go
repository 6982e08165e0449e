package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ignatzorin/proposal-backend/internal/ai"
	"github.com/ignatzorin/proposal-backend/internal/logger"
	"github.com/ignatzorin/proposal-backend/internal/models"
	"github.com/ignatzorin/proposal-backend/internal/normalize"
	"github.com/ignatzorin/proposal-backend/internal/pkg/apperror"
	"github.com/ignatzorin/proposal-backend/internal/repository"
	"github.com/ignatzorin/proposal-backend/internal/validation"
)

// ProposalGenerator описывает зависимость сервиса от клиента модели.
// Интерфейс нужен, чтобы тесты подставляли фейковую модель.
type ProposalGenerator interface {
	GenerateProposal(ctx context.Context, brief, template, currency string) (*models.GeneratedProposal, error)
}

// UserStore описывает зависимости сервиса от хранилища пользователей.
type UserStore interface {
	GetByStackID(ctx context.Context, stackUserID string) (*models.User, error)
	Upsert(ctx context.Context, user *models.User) error
}

// ProposalStore описывает зависимости сервиса от хранилища предложений.
type ProposalStore interface {
	Create(ctx context.Context, p *models.Proposal) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ProposalSummary, error)
	GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Proposal, error)
	Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Proposal, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error)
}

// ProposalService инкапсулирует конвейер генерации и операции над
// предложениями в рамках владельца.
type ProposalService struct {
	users     UserStore
	proposals ProposalStore
	generator ProposalGenerator
}

// GenerateInput содержит входные данные генерации.
type GenerateInput struct {
	Brief    string
	Template string
	Currency string
}

// ProposalStats статистика предложений пользователя для дашборда.
type ProposalStats struct {
	Total    int            `json:"total"`
	ByStatus map[string]int `json:"byStatus"`
}

// NewProposalService создаёт сервис предложений.
func NewProposalService(users UserStore, proposals ProposalStore, generator ProposalGenerator) *ProposalService {
	return &ProposalService{
		users:     users,
		proposals: proposals,
		generator: generator,
	}
}

// Generate проводит запрос через конвейер: валидация, разрешение личности,
// вызов модели, нормализация, сохранение. Первый же отказ обрывает цепочку,
// до него никаких записей в базе не появляется.
func (s *ProposalService) Generate(ctx context.Context, ident models.Identity, in GenerateInput) (*models.Proposal, error) {
	if err := validation.ValidateBrief(in.Brief); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	if err := validation.ValidateTemplate(in.Template); err != nil {
		return nil, apperror.New(apperror.ErrCodeValidation, err.Error())
	}
	currency := validation.NormalizeCurrency(in.Currency)

	user, err := s.resolveUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	generated, err := s.generator.GenerateProposal(ctx, in.Brief, in.Template, currency)
	if err != nil {
		// Для оператора различаем «модель недоступна» и «модель вернула
		// мусор», клиенту уходит один общий ответ.
		kind := "unknown"
		switch {
		case errors.Is(err, ai.ErrModelUnavailable):
			kind = "model_unavailable"
		case errors.Is(err, ai.ErrModelResponse):
			kind = "model_response"
		}
		logger.WithComponent("proposal_service").WithFields(logrus.Fields{
			"kind":     kind,
			"template": in.Template,
		}).WithError(err).Error("генерация предложения не удалась")

		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to generate proposal")
	}

	proposal := &models.Proposal{
		UserID:        user.ID,
		Title:         normalize.Field(generated.Title),
		ClientName:    normalize.Field(generated.ClientName),
		ClientCompany: normalize.Field(generated.ClientCompany),
		Brief:         in.Brief,
		Scope:         normalize.Field(generated.Scope),
		Deliverables:  normalize.Field(generated.Deliverables),
		Timeline:      normalize.Field(generated.Timeline),
		Pricing:       pricingOrDefault(generated.Pricing, currency),
		Terms:         normalize.Field(generated.Terms),
		Template:      in.Template,
		Currency:      currency,
		Status:        models.ProposalStatusDraft,
	}

	if err := s.proposals.Create(ctx, proposal); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to generate proposal")
	}

	return proposal, nil
}

// List возвращает предложения владельца в облегчённой проекции.
// Пока локальной тени пользователя нет, список пуст.
func (s *ProposalService) List(ctx context.Context, ident models.Identity) ([]models.ProposalSummary, error) {
	user, err := s.users.GetByStackID(ctx, ident.StackUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return []models.ProposalSummary{}, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to fetch proposals")
	}

	summaries, err := s.proposals.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to fetch proposals")
	}

	return summaries, nil
}

// Get возвращает полную запись владельца. Чужая и отсутствующая записи
// дают одинаковый 404.
func (s *ProposalService) Get(ctx context.Context, ident models.Identity, id uuid.UUID) (*models.Proposal, error) {
	user, err := s.localUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	proposal, err := s.proposals.GetByID(ctx, id, user.ID)
	if err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return nil, apperror.ErrProposalNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to fetch proposal")
	}

	return proposal, nil
}

// Update применяет частичный набор полей к записи владельца.
// Разрешённые ключи ограничены явным списком, остальные отклоняются.
func (s *ProposalService) Update(ctx context.Context, ident models.Identity, id uuid.UUID, body map[string]any) (*models.Proposal, error) {
	user, err := s.localUser(ctx, ident)
	if err != nil {
		return nil, err
	}

	fields, err := coerceUpdateFields(body)
	if err != nil {
		return nil, err
	}

	proposal, err := s.proposals.Update(ctx, id, user.ID, fields)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrProposalNotFound):
			return nil, apperror.ErrProposalNotFound
		case errors.Is(err, repository.ErrUnknownField), errors.Is(err, repository.ErrNoFields):
			return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
		default:
			return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to update proposal")
		}
	}

	return proposal, nil
}

// Delete жёстко удаляет запись владельца.
func (s *ProposalService) Delete(ctx context.Context, ident models.Identity, id uuid.UUID) error {
	user, err := s.localUser(ctx, ident)
	if err != nil {
		return err
	}

	if err := s.proposals.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrProposalNotFound) {
			return apperror.ErrProposalNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to delete proposal")
	}

	return nil
}

// Stats возвращает количество предложений владельца по статусам.
func (s *ProposalService) Stats(ctx context.Context, ident models.Identity) (*ProposalStats, error) {
	stats := &ProposalStats{ByStatus: make(map[string]int, len(models.ValidProposalStatuses))}
	for status := range models.ValidProposalStatuses {
		stats.ByStatus[status] = 0
	}

	user, err := s.users.GetByStackID(ctx, ident.StackUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return stats, nil
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to fetch stats")
	}

	counts, err := s.proposals.CountByStatus(ctx, user.ID)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to fetch stats")
	}

	for status, count := range counts {
		stats.ByStatus[status] = count
		stats.Total += count
	}

	return stats, nil
}

// resolveUser лениво материализует локальную тень внешней учётной записи.
// Upsert идемпотентен, гонку первых запросов разрешает constraint в базе.
func (s *ProposalService) resolveUser(ctx context.Context, ident models.Identity) (*models.User, error) {
	user := &models.User{
		StackUserID: ident.StackUserID,
		Email:       ident.Email,
	}
	if ident.Name != "" {
		name := ident.Name
		user.Name = &name
	}

	if err := s.users.Upsert(ctx, user); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to generate proposal")
	}

	return user, nil
}

// localUser находит существующую тень пользователя, не создавая новую:
// операциям чтения и изменения нечего делать с пользователем без записей.
func (s *ProposalService) localUser(ctx context.Context, ident models.Identity) (*models.User, error) {
	user, err := s.users.GetByStackID(ctx, ident.StackUserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperror.ErrUserNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeInternal, "Failed to resolve user")
	}

	return user, nil
}

// coerceUpdateFields проверяет типы значений частичного обновления.
// Текстовые поля принимают только строки, pricing — произвольный JSON,
// статус — значение из перечисления (без проверки переходов).
func coerceUpdateFields(body map[string]any) (map[string]any, error) {
	if len(body) == 0 {
		return nil, apperror.New(apperror.ErrCodeBadRequest, "No fields to update")
	}

	fields := make(map[string]any, len(body))
	for key, value := range body {
		switch key {
		case "pricing":
			raw, err := json.Marshal(value)
			if err != nil {
				return nil, apperror.New(apperror.ErrCodeBadRequest, "Invalid value for field pricing")
			}
			fields[key] = models.Pricing(raw)
		case "status":
			str, ok := value.(string)
			if !ok {
				return nil, apperror.New(apperror.ErrCodeBadRequest, "Invalid value for field status")
			}
			if err := validation.ValidateStatus(str); err != nil {
				return nil, apperror.New(apperror.ErrCodeBadRequest, err.Error())
			}
			fields[key] = str
		case "title", "clientName", "clientCompany", "scope", "deliverables", "timeline", "terms":
			str, ok := value.(string)
			if !ok {
				return nil, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("Invalid value for field %s", key))
			}
			fields[key] = str
		default:
			return nil, apperror.New(apperror.ErrCodeBadRequest, fmt.Sprintf("Unknown field: %s", key))
		}
	}

	return fields, nil
}

// pricingOrDefault подставляет пустую структуру ценообразования, если модель
// не вернула pricing: jsonb колонка не принимает NULL, а фронтенд ждёт items.
func pricingOrDefault(raw json.RawMessage, currency string) models.Pricing {
	if len(raw) == 0 || string(raw) == "null" {
		fallback, _ := json.Marshal(map[string]any{
			"items":    []any{},
			"total":    0,
			"currency": currency,
		})
		return models.Pricing(fallback)
	}
	return models.Pricing(raw)
}
