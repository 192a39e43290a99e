package util

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError descreve a falha de um campo para exibição inline no formulário.
type FieldError struct {
	Campo    string `json:"campo"`
	Mensagem string `json:"mensagem"`
}

// ValidationError agrega falhas de validação de um payload.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "dados de entrada inválidos"
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Campo+": "+f.Mensagem)
	}
	return "dados de entrada inválidos: " + strings.Join(parts, "; ")
}

// NewValidationError cria erro com um único campo.
func NewValidationError(campo, mensagem string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Campo: campo, Mensagem: mensagem}}}
}

// AsValidationError extrai o ValidationError da cadeia.
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// ValidateStruct valida payloads declarados com tags `validate`.
// A mensagem de cada campo vem da tag `msg`; sem ela usa-se um texto padrão pela regra.
func ValidateStruct(payload any) error {
	err := validatorInstance().Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	t := reflect.TypeOf(payload)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := &ValidationError{Fields: make([]FieldError, 0, len(fieldErrs))}
	for _, fe := range fieldErrs {
		msg := ""
		if sf, ok := t.FieldByName(fe.StructField()); ok {
			msg = sf.Tag.Get("msg")
		}
		if msg == "" {
			msg = defaultMessage(fe)
		}
		out.Fields = append(out.Fields, FieldError{Campo: fe.Field(), Mensagem: msg})
	}
	return out
}

func defaultMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Campo obrigatório."
	case "email":
		return "Email inválido."
	case "min":
		return "Deve ter pelo menos " + fe.Param() + " caracteres."
	case "max":
		return "Deve ter no máximo " + fe.Param() + " caracteres."
	case "len":
		return "Deve ter exatamente " + fe.Param() + " caracteres."
	case "oneof":
		return "Valor deve ser um de: " + fe.Param() + "."
	default:
		return "Valor inválido."
	}
}

// TrimOptional normaliza texto opcional: vazio após trim vira nil.
func TrimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// NormalizeEmail aplica trim e minúsculas.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
