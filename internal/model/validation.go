package model

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/felicare/ckd-api/pkg/timeutil"
)

// RegisterValidations installs custom binding validators on gin's
// validator engine. Call once at startup before serving requests.
func RegisterValidations() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	v.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
		return timeutil.IsValidTimeString(fl.Field().String())
	})
}
