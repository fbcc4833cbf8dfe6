package server

import (
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kapu/astroweb-go/internal/edit"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance reports JSON field names and knows the editpath tag.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("editpath", func(fl validator.FieldLevel) bool {
			_, err := edit.ParseTarget(fl.Field().String())
			return err == nil
		})

		validateInst = v
	})
	return validateInst
}
