package domain

import (
	"fmt"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateArticle checks the normalized Article contract.
func ValidateArticle(a Article) error {
	if err := validatorInstance().Struct(a); err != nil {
		return fmt.Errorf("article %q: %w", a.ID, err)
	}
	return nil
}

// ValidateDeal checks the normalized Deal contract.
func ValidateDeal(d Deal) error {
	if err := validatorInstance().Struct(d); err != nil {
		return fmt.Errorf("deal %q: %w", d.ID, err)
	}
	return nil
}
