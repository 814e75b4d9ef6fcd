package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/openplanner/gradplan-backend/internal/model"
)

// trans is the singleton English translator for validation errors.
var trans ut.Translator

// Setup configures Gin's binding engine: JSON tag names in error messages,
// English translations, and the domain validations below. Call once during
// startup.
func Setup() {
	v, ok := binding.Validator.Engine().(*govalidator.Validate)
	if !ok {
		return
	}

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ = uni.GetTranslator("en")
	en_translations.RegisterDefaultTranslations(v, trans)

	registerCourseCode(v)
}

// registerCourseCode wires the course_code validation: the value must parse
// as "SUBJ 1234" optionally followed by a suffix, matching catalog codes.
func registerCourseCode(v *govalidator.Validate) {
	v.RegisterValidation("course_code", func(fl govalidator.FieldLevel) bool {
		_, _, _, err := model.ParseCourseCode(fl.Field().String())
		return err == nil
	})

	v.RegisterTranslation("course_code", trans,
		func(ut ut.Translator) error {
			return ut.Add("course_code", `{0} must be a course code like "CS 1101"`, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T("course_code", fe.Field())
			if err != nil {
				return fe.Field() + " must be a valid course code"
			}
			return msg
		},
	)
}

// TranslateErrors maps a binding/validation error to field name →
// human-readable message. Non-validation errors (malformed JSON) collapse to
// a single "detail" entry.
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
