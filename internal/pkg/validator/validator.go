package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/go-playground/validator/v10"
)

// Validator checks request DTOs against their validate tags
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report JSON names, clients never see Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})

	return &Validator{validate: v}
}

func (v *Validator) ValidateAsk(req *entity.AskRequest) error {
	return v.check(req)
}

// ValidateFormat accepts an empty format as markdown
func (v *Validator) ValidateFormat(format string) (entity.ExportFormat, error) {
	if format == "" {
		return entity.ExportMarkdown, nil
	}
	f := entity.ExportFormat(strings.ToLower(format))
	switch f {
	case entity.ExportMarkdown, entity.ExportPDF, entity.ExportDOCX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: format %q (allowed: markdown, pdf, docx)", entity.ErrInvalidFormat, format)
	}
}

func (v *Validator) check(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", entity.ErrInvalidParameter, err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required", "notblank":
		return fmt.Errorf("%w: %s", entity.ErrMissingField, fe.Field())
	case "max":
		return fmt.Errorf("%w: %s must be at most %s characters", entity.ErrInvalidParameter, fe.Field(), fe.Param())
	default:
		return fmt.Errorf("%w: %s failed %s", entity.ErrInvalidParameter, fe.Field(), fe.Tag())
	}
}
