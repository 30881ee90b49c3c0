package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	hourRe = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func init() {
	validate = validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return ""
		case "":
			return f.Name
		}
		return name
	})
	_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return hourRe.MatchString(fl.Field().String())
	})
	_ = validate.RegisterValidation("ymd", func(fl validator.FieldLevel) bool {
		return dateRe.MatchString(fl.Field().String())
	})
}

// Validate checks struct fields and returns the failed tag per field, keyed
// by JSON name. It returns nil when v is valid.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}

	out := make(map[string]string, len(verrs))
	for _, e := range verrs {
		out[e.Field()] = e.Tag()
	}
	return out
}
