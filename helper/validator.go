package helper

import (
	"reflect"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	ipv4Regex         = regexp.MustCompile(`^(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])(\.(25[0-5]|2[0-4][0-9]|1[0-9]{2}|[1-9]?[0-9])){3}$`)
	imageDataURIRegex = regexp.MustCompile(`^data:image/(png|jpeg|jpg|gif);base64,`)
)

// NewValidator builds a validator with the project rules registered and
// english messages attached to the returned translator.
func NewValidator() (*validator.Validate, ut.Translator) {
	v := validator.New(validator.WithRequiredStructEnabled())

	// report json names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	_ = v.RegisterValidation("password", validatePassword)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("ipv4_dotted", validateIPv4)
	_ = v.RegisterValidation("datauri_image", validateImageDataURI)

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	registerMessage(v, trans, "password", "{0} must contain at least one uppercase letter, one lowercase letter, and one number")
	registerMessage(v, trans, "notblank", "{0} must be a non-empty string")
	registerMessage(v, trans, "ipv4_dotted", "{0} must be a valid IPv4 address")
	registerMessage(v, trans, "datauri_image", "{0} must be a base64 png, jpeg or gif data URI")

	return v, trans
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

func validatePassword(fl validator.FieldLevel) bool {
	var upper, lower, digit bool
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func validateIPv4(fl validator.FieldLevel) bool {
	return ipv4Regex.MatchString(fl.Field().String())
}

func validateImageDataURI(fl validator.FieldLevel) bool {
	return imageDataURIRegex.MatchString(fl.Field().String())
}
