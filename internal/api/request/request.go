// Package request decodifica e valida os payloads JSON da API.
package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
)

const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Mensagens usam o nome do campo JSON.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("user_role", func(fl validator.FieldLevel) bool {
		return domain.UserRole(fl.Field().String()).IsValid()
	})

	return v
}

// Decode lê o corpo JSON em dst e aplica as tags `validate`.
// Qualquer falha vira ValidationError (400).
func Decode(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		return apperror.NewValidationError("Payload JSON inválido.")
	}

	if err := validate.Struct(dst); err != nil {
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			msgs := make([]string, 0, len(ve))
			for _, fe := range ve {
				msgs = append(msgs, fieldError(fe))
			}
			return apperror.NewValidationError(strings.Join(msgs, "; "))
		}
		return apperror.NewValidationError(err.Error())
	}
	return nil
}

func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " é obrigatório"
	case "email":
		return field + " deve ser um email válido"
	case "uuid":
		return field + " deve ser um UUID válido"
	case "min":
		return fmt.Sprintf("%s deve ter no mínimo %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s deve ter no máximo %s", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s deve ser maior ou igual a %s", field, fe.Param())
	case "user_role":
		return fmt.Sprintf("%s deve ser um papel válido", field)
	default:
		return fmt.Sprintf("%s falhou na validação (%s)", field, fe.Tag())
	}
}
