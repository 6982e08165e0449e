package dto

// ErrorResponse стандартный ответ с ошибкой.
type ErrorResponse struct {
	Error string `json:"error"`
}

// DeleteResponse ответ успешного удаления.
type DeleteResponse struct {
	Success bool `json:"success"`
}
