package apperror

import (
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func jsonTagName(fld reflect.StructField) string {
	// Mengambil nama dari tag json (contoh: `json:"access_token"`)
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

// Init daftarkan tag name func ke validator bawaan Gin (dipakai devapi).
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(jsonTagName)
	}
}

// Validator returns the shared validator used for client-side checks that
// run before anything reaches the network.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonTagName)
	})
	return validate
}

// Validate runs struct validation and maps the first failure to an AppError.
func Validate(v any) error {
	if err := Validator().Struct(v); err != nil {
		return MapValidationError(err)
	}
	return nil
}
