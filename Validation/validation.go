package Validation

import (
	"errors"
	"fmt"
	"strings"

	"FuelLog/xerrors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Checker wraps a validator with English translations so rejected forms
// carry human-readable messages.
type Checker struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() *Checker {
	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	if err := en_translations.RegisterDefaultTranslations(v, trans); err != nil {
		// Untranslated messages are still usable.
		fmt.Println("Failed to register validator translations:", err)
	}
	return &Checker{validate: v, trans: trans}
}

// Struct validates a form and converts failures to a single ErrValidation
// with every field message joined.
func (c *Checker) Struct(form interface{}) error {
	err := c.validate.Struct(form)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return fmt.Errorf("%w: %v", xerrors.ErrValidation, err)
	}

	messages := make([]string, 0, len(fieldErrors))
	for _, fieldErr := range fieldErrors {
		messages = append(messages, fieldErr.Translate(c.trans))
	}
	return fmt.Errorf("%w: %s", xerrors.ErrValidation, strings.Join(messages, "; "))
}
