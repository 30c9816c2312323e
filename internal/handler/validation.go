package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// validationBody turns validator errors into the structured 400 payload:
// a generic message plus a field -> constraint map, never the raw
// validator output.
func validationBody(err error) echo.Map {
	fields := map[string]string{}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			fields[strings.ToLower(fe.Field())] = "failed constraint: " + fe.Tag()
		}
	}
	return echo.Map{"error": "validation failed", "fields": fields}
}
