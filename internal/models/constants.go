package models

// ProposalStatus константы статусов предложений
const (
	ProposalStatusDraft    = "DRAFT"
	ProposalStatusSent     = "SENT"
	ProposalStatusViewed   = "VIEWED"
	ProposalStatusAccepted = "ACCEPTED"
	ProposalStatusRejected = "REJECTED"
	ProposalStatusExpired  = "EXPIRED"
)

// Template константы видов шаблонов
const (
	TemplateConsulting   = "consulting"
	TemplateDevelopment  = "development"
	TemplateDesign       = "design"
	TemplateMarketing    = "marketing"
	TemplateConstruction = "construction"
)

// ValidProposalStatuses список валидных статусов предложений.
// Граф переходов между статусами намеренно не проверяется.
var ValidProposalStatuses = map[string]struct{}{
	ProposalStatusDraft:    {},
	ProposalStatusSent:     {},
	ProposalStatusViewed:   {},
	ProposalStatusAccepted: {},
	ProposalStatusRejected: {},
	ProposalStatusExpired:  {},
}

// ValidTemplates список валидных видов шаблонов
var ValidTemplates = map[string]struct{}{
	TemplateConsulting:   {},
	TemplateDevelopment:  {},
	TemplateDesign:       {},
	TemplateMarketing:    {},
	TemplateConstruction: {},
}

// TemplateInfo описывает шаблон для каталога мастера создания.
type TemplateInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CurrencyInfo описывает валюту для каталога мастера создания.
type CurrencyInfo struct {
	Code   string `json:"code"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// TemplateCatalog фиксированный список шаблонов, который отдаётся фронтенду.
var TemplateCatalog = []TemplateInfo{
	{ID: TemplateConsulting, Name: "Consulting", Description: "Strategy, advisory, and business services"},
	{ID: TemplateDevelopment, Name: "Development", Description: "Software, web, and mobile development"},
	{ID: TemplateDesign, Name: "Design", Description: "Brand, UX/UI, and creative design"},
	{ID: TemplateMarketing, Name: "Marketing", Description: "Campaigns, content, and growth"},
	{ID: TemplateConstruction, Name: "Construction", Description: "Building, renovation, and contracting"},
}

// CurrencyCatalog фиксированный список валют, который отдаётся фронтенду.
var CurrencyCatalog = []CurrencyInfo{
	{Code: "USD", Symbol: "$", Name: "US Dollar"},
	{Code: "EUR", Symbol: "€", Name: "Euro"},
	{Code: "GBP", Symbol: "£", Name: "British Pound"},
	{Code: "BRL", Symbol: "R$", Name: "Brazilian Real"},
}
