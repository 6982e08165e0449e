// Package wizard кодирует контракт двухшагового мастера создания
// предложения: выбор шаблона и валюты, затем ввод описания задачи.
// Фронтенд реализует тот же автомат; здесь он зафиксирован, чтобы правила
// переходов проверялись теми же валидаторами, что и API.
package wizard

import (
	"errors"

	"github.com/ignatzorin/proposal-backend/internal/models"
	"github.com/ignatzorin/proposal-backend/internal/validation"
)

// State состояние мастера.
type State string

const (
	// StateSelectingTemplate первый шаг: выбор шаблона и валюты.
	StateSelectingTemplate State = "selecting_template"
	// StateEnteringBrief второй шаг: ввод описания задачи.
	StateEnteringBrief State = "entering_brief"
	// StateGenerating запрос генерации отправлен; отмены нет.
	StateGenerating State = "generating"
)

// Ошибки переходов.
var (
	ErrWrongState      = errors.New("wizard: переход недоступен из текущего состояния")
	ErrInvalidTemplate = errors.New("wizard: неизвестный шаблон")
)

// Machine автомат мастера. Succeed выводит из мастера целиком: дальше
// следует переход на страницу созданного предложения.
type Machine struct {
	state    State
	template string
	currency string
	brief    string
	errMsg   string
}

// New создаёт мастер в начальном состоянии с дефолтным выбором.
func New() *Machine {
	return &Machine{
		state:    StateSelectingTemplate,
		template: models.TemplateConsulting,
		currency: validation.DefaultCurrency,
	}
}

// State возвращает текущее состояние.
func (m *Machine) State() State { return m.state }

// Template возвращает выбранный шаблон.
func (m *Machine) Template() string { return m.template }

// Currency возвращает выбранную валюту.
func (m *Machine) Currency() string { return m.currency }

// Brief возвращает введённое описание задачи.
func (m *Machine) Brief() string { return m.brief }

// Error возвращает сообщение, показываемое на шаге ввода описания.
func (m *Machine) Error() string { return m.errMsg }

// SelectTemplate меняет шаблон на первом шаге.
func (m *Machine) SelectTemplate(template string) error {
	if m.state != StateSelectingTemplate {
		return ErrWrongState
	}
	if _, ok := models.ValidTemplates[template]; !ok {
		return ErrInvalidTemplate
	}
	m.template = template
	return nil
}

// SelectCurrency меняет валюту на первом шаге.
func (m *Machine) SelectCurrency(currency string) error {
	if m.state != StateSelectingTemplate {
		return ErrWrongState
	}
	m.currency = validation.NormalizeCurrency(currency)
	return nil
}

// Continue безусловный переход с первого шага на ввод описания.
func (m *Machine) Continue() error {
	if m.state != StateSelectingTemplate {
		return ErrWrongState
	}
	m.state = StateEnteringBrief
	return nil
}

// Back возвращает со второго шага на выбор шаблона. Введённый текст
// сохраняется.
func (m *Machine) Back() error {
	if m.state != StateEnteringBrief {
		return ErrWrongState
	}
	m.state = StateSelectingTemplate
	return nil
}

// SetBrief сохраняет текст описания на втором шаге.
func (m *Machine) SetBrief(brief string) error {
	if m.state != StateEnteringBrief {
		return ErrWrongState
	}
	m.brief = brief
	return nil
}

// Submit переводит мастер в генерацию. Переход закрыт, пока описание
// короче минимума: вместо него показывается inline сообщение.
func (m *Machine) Submit() error {
	if m.state != StateEnteringBrief {
		return ErrWrongState
	}
	if err := validation.ValidateBrief(m.brief); err != nil {
		m.errMsg = err.Error()
		return err
	}
	m.errMsg = ""
	m.state = StateGenerating
	return nil
}

// Succeed фиксирует успешную генерацию: мастер завершён.
func (m *Machine) Succeed() error {
	if m.state != StateGenerating {
		return ErrWrongState
	}
	m.state = StateSelectingTemplate
	m.brief = ""
	m.errMsg = ""
	return nil
}

// Fail возвращает на ввод описания с общим сообщением о повторе.
// Автоматического ретрая нет: пользователь отправляет заново сам.
func (m *Machine) Fail() error {
	if m.state != StateGenerating {
		return ErrWrongState
	}
	m.state = StateEnteringBrief
	m.errMsg = "Failed to generate proposal. Please try again."
	return nil
}
