package httpserver

import (
	"moviecatalog/errs"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type CustomValidator struct {
	validate *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &CustomValidator{validate: v}
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validate.Struct(i); err != nil {
		return validationError(err)
	}
	return nil
}

func validationError(err error) error {
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		return errs.Errorf(errs.EINVALID, "validation error")
	}

	fields := make(map[string]string, len(ves))
	for _, fe := range ves {
		field := fe.Field()
		if field == "" {
			field = fe.StructField()
		}
		fields[field] = fieldReason(fe)
	}
	return errs.Invalid(fields)
}

func fieldReason(fe validator.FieldError) string {
	isText := fe.Kind() == reflect.String
	switch fe.Tag() {
	case "required", "notblank":
		return "is required"
	case "max":
		if isText {
			return "must not exceed " + fe.Param() + " characters"
		}
		return "must be at most " + fe.Param()
	case "min":
		if isText {
			return "must be at least " + fe.Param() + " characters"
		}
		return "must be at least " + fe.Param()
	}
	return "failed on " + fe.Tag()
}
