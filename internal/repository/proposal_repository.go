package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/proposal-backend/internal/models"
)

// Ошибки репозитория предложений.
var (
	// ErrProposalNotFound возвращается и при отсутствии записи, и при чужом
	// владельце: снаружи эти случаи неразличимы.
	ErrProposalNotFound = errors.New("proposal not found")
	// ErrUnknownField возвращается при попытке обновить поле вне списка разрешённых.
	ErrUnknownField = errors.New("unknown field")
	// ErrNoFields возвращается, когда в частичном обновлении нет ни одного поля.
	ErrNoFields = errors.New("no fields to update")
)

// updatableColumns задаёт список изменяемых полей: JSON ключ запроса -> колонка.
// brief, template и currency фиксируются при создании и сюда не входят.
var updatableColumns = map[string]string{
	"title":         "title",
	"clientName":    "client_name",
	"clientCompany": "client_company",
	"scope":         "scope",
	"deliverables":  "deliverables",
	"timeline":      "timeline",
	"pricing":       "pricing",
	"terms":         "terms",
	"status":        "status",
}

// ProposalRepository отвечает за работу с таблицей proposals.
// Все операции чтения и изменения ограничены владельцем через предикат
// запроса, блокировок нет.
type ProposalRepository struct {
	db *sqlx.DB
}

// NewProposalRepository создаёт экземпляр репозитория.
func NewProposalRepository(db *sqlx.DB) *ProposalRepository {
	return &ProposalRepository{db: db}
}

// Create вставляет новое предложение одним INSERT: частично созданных
// записей не бывает.
func (r *ProposalRepository) Create(ctx context.Context, p *models.Proposal) error {
	query := `
		INSERT INTO proposals (user_id, title, client_name, client_company, brief, scope, deliverables, timeline, pricing, terms, template, currency, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING id, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		p.UserID, p.Title, p.ClientName, p.ClientCompany, p.Brief,
		p.Scope, p.Deliverables, p.Timeline, p.Pricing, p.Terms,
		p.Template, p.Currency, p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return fmt.Errorf("proposal repository: create %w", err)
	}

	return nil
}

// ListByUser возвращает предложения пользователя в облегчённой проекции,
// новые сверху.
func (r *ProposalRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ProposalSummary, error) {
	query := `
		SELECT id, title, client_name, client_company, status, pricing, template, created_at
		FROM proposals
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	summaries := []models.ProposalSummary{}
	if err := r.db.SelectContext(ctx, &summaries, query, userID); err != nil {
		return nil, fmt.Errorf("proposal repository: list by user %w", err)
	}

	return summaries, nil
}

// GetByID возвращает полную запись, только если она принадлежит пользователю.
func (r *ProposalRepository) GetByID(ctx context.Context, id, userID uuid.UUID) (*models.Proposal, error) {
	var p models.Proposal
	query := `
		SELECT id, user_id, title, client_name, client_company, brief, scope, deliverables, timeline, pricing, terms, template, currency, status, created_at, updated_at
		FROM proposals
		WHERE id = $1 AND user_id = $2
	`
	if err := r.db.GetContext(ctx, &p, query, id, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: get by id %w", err)
	}

	return &p, nil
}

// Update применяет частичный набор полей к записи пользователя и возвращает
// обновлённую запись. Ноль затронутых строк означает «не найдено».
func (r *ProposalRepository) Update(ctx context.Context, id, userID uuid.UUID, fields map[string]any) (*models.Proposal, error) {
	setClause, args, err := buildUpdateSet(fields)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`
		UPDATE proposals
		SET %s, updated_at = NOW()
		WHERE id = $%d AND user_id = $%d
		RETURNING id, user_id, title, client_name, client_company, brief, scope, deliverables, timeline, pricing, terms, template, currency, status, created_at, updated_at
	`, setClause, len(args)+1, len(args)+2)
	args = append(args, id, userID)

	var p models.Proposal
	if err := r.db.QueryRowxContext(ctx, query, args...).StructScan(&p); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProposalNotFound
		}
		return nil, fmt.Errorf("proposal repository: update %w", err)
	}

	return &p, nil
}

// Delete жёстко удаляет запись пользователя. Tombstone-ов нет.
func (r *ProposalRepository) Delete(ctx context.Context, id, userID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM proposals WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("proposal repository: delete %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("proposal repository: delete rows affected %w", err)
	}

	if rowsAffected == 0 {
		return ErrProposalNotFound
	}

	return nil
}

// CountByStatus возвращает количество предложений пользователя по статусам.
func (r *ProposalRepository) CountByStatus(ctx context.Context, userID uuid.UUID) (map[string]int, error) {
	query := `
		SELECT status, COUNT(*) AS count
		FROM proposals
		WHERE user_id = $1
		GROUP BY status
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("proposal repository: count by status %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("proposal repository: count by status scan %w", err)
		}
		counts[status] = count
	}

	return counts, rows.Err()
}

// buildUpdateSet собирает SET часть запроса из частичного набора полей.
// Поля вне списка разрешённых отклоняются, а не молча игнорируются.
// Ключи обходятся в отсортированном порядке, чтобы запрос был детерминирован.
func buildUpdateSet(fields map[string]any) (string, []any, error) {
	if len(fields) == 0 {
		return "", nil, ErrNoFields
	}

	keys := make([]string, 0, len(fields))
	for key := range fields {
		if _, ok := updatableColumns[key]; !ok {
			return "", nil, fmt.Errorf("%w: %s", ErrUnknownField, key)
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	args := make([]any, 0, len(keys))
	for i, key := range keys {
		parts = append(parts, fmt.Sprintf("%s = $%d", updatableColumns[key], i+1))
		args = append(args, fields[key])
	}

	return strings.Join(parts, ", "), args, nil
}
