package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	playground "github.com/go-playground/validator/v10"
)

// inputValidator checks the `validate` tags of *Input structs. String lengths are counted in runes.
var inputValidator = newInputValidator()

func newInputValidator() *playground.Validate {
	v := playground.New(playground.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// checkStruct records every tag violation of input under its JSON field name.
func (v validator) checkStruct(input interface{}) {
	err := inputValidator.Struct(input)
	if err == nil {
		return
	}
	var fieldErrs playground.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		panic(err)
	}
	for _, fe := range fieldErrs {
		v.check(false, fe.Field(), ruleMessage(fe))
	}
}

func ruleMessage(fe playground.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "must be provided"
	case "max":
		return fmt.Sprintf("must not be more than %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s characters", fe.Param())
	case "gte":
		return fmt.Sprintf("must be at least %s", fe.Param())
	default:
		return "is invalid"
	}
}
