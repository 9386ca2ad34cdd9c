package services

import (
	"errors"
	"sort"
	"strings"

	"blog-cms/helper"
	"blog-cms/models"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

// Validator runs struct validation and reports failures as models.ErrorValidation.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func NewValidator() *Validator {
	v, trans := helper.NewValidator()
	return &Validator{validate: v, translator: trans}
}

func NewValidatorWith(v *validator.Validate, trans ut.Translator) *Validator {
	return &Validator{validate: v, translator: trans}
}

func (v *Validator) Struct(s interface{}) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return models.ErrorValidation{Message: err.Error()}
	}

	h := helper.HTTPHelper{Translator: v.translator}
	fields := h.TranslateValidationErrors(validationErrors)
	return models.ErrorValidation{Message: joinMessages(fields), Fields: fields}
}

func joinMessages(fields map[string][]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var msgs []string
	for _, k := range keys {
		msgs = append(msgs, fields[k]...)
	}
	return strings.Join(msgs, "; ")
}

func validationError(field, message string) models.ErrorValidation {
	return models.ErrorValidation{
		Message: message,
		Fields:  map[string][]string{field: {message}},
	}
}
