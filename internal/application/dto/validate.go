package dto

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/ldtnet/pdv-api/internal/domain"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func engine() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// los mensajes usan el nombre del campo JSON
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate aplica los tags validate del DTO. El primer campo inválido se informa
// envuelto en domain.ErrInvalidInput.
func Validate(v any) error {
	err := engine().Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		e := verrs[0]
		if e.Tag() == "required" {
			return fmt.Errorf("%w: %s es obligatorio", domain.ErrInvalidInput, e.Field())
		}
		return fmt.Errorf("%w: %s inválido (%s)", domain.ErrInvalidInput, e.Field(), e.Tag())
	}
	return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
}
