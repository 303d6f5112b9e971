package domain

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// ErrValidation wraps every struct validation failure.
var ErrValidation = errors.New("validation error")

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		enum := func(ok func(string) bool) validator.Func {
			return func(fl validator.FieldLevel) bool { return ok(fl.Field().String()) }
		}
		_ = v.RegisterValidation("location", enum(IsLocation))
		_ = v.RegisterValidation("mode", enum(IsMode))
		_ = v.RegisterValidation("experience", enum(IsExperience))
		_ = v.RegisterValidation("source", enum(IsSource))
		validate = v
	})
	return validate
}

// Validate checks enum membership and the score threshold range.
func (p *Preferences) Validate() error {
	return describe(validatorInstance().Struct(p))
}

// Validate checks that a catalog record is complete and well-typed.
func (j *Job) Validate() error {
	if err := describe(validatorInstance().Struct(j)); err != nil {
		if j.ID != "" {
			return fmt.Errorf("job %s: %w", j.ID, err)
		}
		return err
	}
	return nil
}

// describe flattens validator errors into one readable message.
func describe(err error) error {
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	parts := make([]string, 0, len(ves))
	for _, ve := range ves {
		if ve.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s: %s=%s (got %v)", ve.Namespace(), ve.Tag(), ve.Param(), ve.Value()))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s: %s (got %v)", ve.Namespace(), ve.Tag(), ve.Value()))
	}
	return fmt.Errorf("%w: %s", ErrValidation, strings.Join(parts, "; "))
}
