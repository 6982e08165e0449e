package dto

// GenerateProposalRequest тело запроса POST /api/generate.
// Частичное обновление PATCH принимает произвольную map и сюда не входит:
// список разрешённых полей проверяет сервис.
type GenerateProposalRequest struct {
	Brief    string `json:"brief"`
	Template string `json:"template"`
	Currency string `json:"currency"`
}
