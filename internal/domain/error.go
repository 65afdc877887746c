package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"400"`
	Category string `json:"category" example:"INVALID_ARGUMENT"`
	Message  string `json:"message" example:"Argumento inválido: Subdomain must be between 3 and 63 characters"`
}
