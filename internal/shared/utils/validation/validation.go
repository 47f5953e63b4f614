package validation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"popupzone/internal/shared/utils/dates"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the project's custom rules registered:
//
//	civildate  a YYYY-MM-DD calendar date
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("civildate", isCivilDate)
	return v
}

func isCivilDate(fl validator.FieldLevel) bool {
	_, err := time.Parse(dates.Layout, fl.Field().String())
	return err == nil
}

// Describe flattens validation errors into field -> message pairs for the
// response envelope. Other errors are returned as their message.
func Describe(err error) interface{} {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[toSnake(fe.Field())] = describeField(fe)
	}
	return fields
}

func describeField(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without":
		return "is required"
	case "civildate":
		return "must be a date in " + dates.Layout + " format"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "excluded_with":
		return "must not be set together with " + toSnake(fe.Param())
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
