// Package response padroniza as respostas JSON de sucesso e erro da API.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// Writer escreve respostas JSON e traduz erros tipados em status HTTP.
type Writer struct {
	Logger logger.Logger
}

func NewWriter(log logger.Logger) *Writer {
	return &Writer{Logger: log}
}

// JSON escreve data com o status informado. data nil gera corpo vazio.
func (rw *Writer) JSON(w http.ResponseWriter, status int, data interface{}) {
	if data == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		rw.Logger.Error("Falha ao codificar JSON de resposta", err)
	}
}

// Error mapeia err para o corpo domain.ErrorResponse.
func (rw *Writer) Error(w http.ResponseWriter, r *http.Request, err error) {
	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		rw.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		rw.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	rw.JSON(w, status, domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	})
}
