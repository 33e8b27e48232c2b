package goalfolio

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
)

// validate checks the struct tags of Holding and Goal.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// decimals are checked as numbers.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		switch x := field.Interface().(type) {
		case Money:
			return x.AsFloat()
		case Quantity:
			return x.AsFloat()
		}
		return nil
	}, Money{}, Quantity{})
	must(v.RegisterValidation("assetclass", func(fl validator.FieldLevel) bool {
		return AssetClass(fl.Field().String()).Valid()
	}))
	must(v.RegisterValidation("risk", func(fl validator.FieldLevel) bool {
		return RiskLevel(fl.Field().String()).Valid()
	}))
	return v
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// FieldError is the first rule a record failed.
type FieldError struct {
	Field string // struct field name
	Tag   string // validation rule
	Param string
}

func (e *FieldError) Error() string {
	switch e.Tag {
	case "required":
		return fmt.Sprintf("%s is required", e.Field)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", e.Field, e.Param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", e.Field, e.Param)
	case "assetclass":
		return fmt.Sprintf("%s must be one of %v", e.Field, AssetClasses)
	case "risk":
		return fmt.Sprintf("%s must be one of %v", e.Field, RiskLevels)
	}
	return fmt.Sprintf("%s failed rule %q", e.Field, e.Tag)
}

// validationError turns validator errors into a *FieldError.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return &FieldError{Field: fe.Field(), Tag: fe.Tag(), Param: fe.Param()}
	}
	return err
}
