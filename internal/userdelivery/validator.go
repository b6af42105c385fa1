package userdelivery

import (
	"github.com/go-petr/family-wallet/internal/domain"
	"github.com/go-playground/validator/v10"
)

// ValidRole validates whether the role is supported.
var ValidRole validator.Func = func(fl validator.FieldLevel) bool {
	if r, ok := fl.Field().Interface().(string); ok {
		return domain.IsValidRole(r)
	}

	return false
}
