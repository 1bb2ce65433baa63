package validator

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"venuebooking/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
}

// Validate returns every failing field keyed by its wire name, or nil.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(errs))
	for _, fe := range errs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Check folds Validate into a domain validation error, merging extra.
func Check(v interface{}, extra *domain.ValidationError) error {
	verr := extra
	if verr == nil {
		verr = &domain.ValidationError{}
	}
	for field, tag := range Validate(v) {
		verr.Add(field, tag)
	}
	if verr.Empty() {
		return nil
	}
	return verr
}
