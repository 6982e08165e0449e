package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Pricing хранит структуру ценообразования как сырой JSON.
// Модель возвращает {items: [{name, description, price}], total, currency};
// значение проходит от ответа модели до jsonb колонки и обратно без
// перекодирования, потому что фронтенд итерируется по items и читает total.
type Pricing json.RawMessage

// Value реализует driver.Valuer для записи в jsonb колонку.
func (p Pricing) Value() (driver.Value, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

// Scan реализует sql.Scanner для чтения из jsonb колонки.
func (p *Pricing) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*p = nil
		return nil
	case []byte:
		buf := make([]byte, len(v))
		copy(buf, v)
		*p = Pricing(buf)
		return nil
	case string:
		*p = Pricing(v)
		return nil
	default:
		return fmt.Errorf("pricing: неподдерживаемый тип %T", src)
	}
}

// MarshalJSON отдаёт сохранённый JSON как есть.
func (p Pricing) MarshalJSON() ([]byte, error) {
	if len(p) == 0 {
		return []byte("null"), nil
	}
	return []byte(p), nil
}

// UnmarshalJSON принимает любой валидный JSON без разбора структуры.
func (p *Pricing) UnmarshalJSON(data []byte) error {
	buf := make([]byte, len(data))
	copy(buf, data)
	*p = Pricing(buf)
	return nil
}

// Proposal описывает сохранённое коммерческое предложение.
// Все текстовые поля уже нормализованы, brief неизменяем после создания.
type Proposal struct {
	ID            uuid.UUID `db:"id" json:"id"`
	UserID        uuid.UUID `db:"user_id" json:"userId"`
	Title         string    `db:"title" json:"title"`
	ClientName    string    `db:"client_name" json:"clientName"`
	ClientCompany string    `db:"client_company" json:"clientCompany"`
	Brief         string    `db:"brief" json:"brief"`
	Scope         string    `db:"scope" json:"scope"`
	Deliverables  string    `db:"deliverables" json:"deliverables"`
	Timeline      string    `db:"timeline" json:"timeline"`
	Pricing       Pricing   `db:"pricing" json:"pricing"`
	Terms         string    `db:"terms" json:"terms"`
	Template      string    `db:"template" json:"template"`
	Currency      string    `db:"currency" json:"currency"`
	Status        string    `db:"status" json:"status"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `db:"updated_at" json:"updatedAt"`
}

// ProposalSummary облегчённая проекция для списка: большие текстовые поля
// (scope, deliverables, timeline, terms, brief) в список не попадают.
type ProposalSummary struct {
	ID            uuid.UUID `db:"id" json:"id"`
	Title         string    `db:"title" json:"title"`
	ClientName    string    `db:"client_name" json:"clientName"`
	ClientCompany string    `db:"client_company" json:"clientCompany"`
	Status        string    `db:"status" json:"status"`
	Pricing       Pricing   `db:"pricing" json:"pricing"`
	Template      string    `db:"template" json:"template"`
	CreatedAt     time.Time `db:"created_at" json:"createdAt"`
}

// GeneratedProposal сырой ответ модели. Поля объявлены как any, потому что
// модель не обязана соблюдать типы: scope может прийти списком, deliverables
// объектом. Приведение к тексту делает normalize.Field; pricing не трогаем.
type GeneratedProposal struct {
	Title         any             `json:"title"`
	ClientName    any             `json:"clientName"`
	ClientCompany any             `json:"clientCompany"`
	Scope         any             `json:"scope"`
	Deliverables  any             `json:"deliverables"`
	Timeline      any             `json:"timeline"`
	Pricing       json.RawMessage `json:"pricing"`
	Terms         any             `json:"terms"`
}
