// Package validate provides JSON decode and struct validation helpers for run
// options and rule packs
package validate

import (
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"regexp"
	"strings"
	"sync"

	perr "corpusbuilder/internal/platform/errors"
	"corpusbuilder/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// FieldError aliases validator.FieldError
type FieldError = validator.FieldError

// Svc holds a singleton validator and translator
type Svc struct {
	Validator  *validator.Validate
	Translator ut.Translator
}

var (
	vOnce    sync.Once
	vSvc     *Svc
	jsonMore = func(dec *json.Decoder) bool { return dec.More() } // seam
)

// Init initializes the singleton validator with english translations and json tag names
func Init() *Svc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())

		// prefer json tag names in messages, then yaml
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "yaml"} {
				tag := fld.Tag.Get(key)
				if tag == "-" || tag == "" {
					continue
				}
				if idx := strings.Index(tag, ","); idx >= 0 {
					tag = tag[:idx]
				}
				return tag
			}
			return fld.Name
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)

		registerShortMin(v, trans)
		registerShortMax(v, trans)
		registerOneGroup(v, trans)

		vSvc = &Svc{Validator: v, Translator: trans}
	})
	return vSvc
}

// Get returns the validator singleton, initializing on first use
func Get() *Svc {
	if vSvc == nil {
		return Init()
	}
	return vSvc
}

// Struct validates v and maps failures to a project error with the given code
func Struct(v any, code perr.ErrorCode) error {
	if err := Get().Validator.Struct(v); err != nil {
		var inv *validator.InvalidValidationError
		if errors.As(err, &inv) {
			logger.Get().Error().Err(inv).Msg("validator internal error")
			return perr.Wrap(inv, code, "validation error")
		}
		field, msg := FieldAndMessage(err)
		return perr.WithField(perr.Newf(code, "%s", msg), field)
	}
	return nil
}

// DecodeJSON decodes exactly one JSON document from r into T, rejecting
// unknown fields and trailing data, then validates it
func DecodeJSON[T any](r io.Reader, code perr.ErrorCode) (T, error) {
	var zero T

	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	var dst T
	if err := dec.Decode(&dst); err != nil {
		return zero, perr.Wrap(err, code, "invalid JSON")
	}
	if jsonMore(dec) {
		return zero, perr.Newf(code, "unexpected trailing data")
	}
	if err := Struct(dst, code); err != nil {
		return zero, err
	}
	return dst, nil
}

// FieldAndMessage returns the first field and translated message
func FieldAndMessage(err error) (field, message string) {
	if err == nil {
		return "", ""
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		return "", inv.Error()
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		for _, fe := range verrs {
			return fe.Field(), fe.Translate(Get().Translator)
		}
	}
	return "", err.Error()
}

// custom translations with short messages

func registerShortMin(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("min", trans,
		func(ut ut.Translator) error {
			return ut.Add("min", "{0} must be at least {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("min", fe.Field(), fe.Param())
			return msg
		},
	)
}

func registerShortMax(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterTranslation("max", trans,
		func(ut ut.Translator) error {
			return ut.Add("max", "{0} must be at most {1}", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("max", fe.Field(), fe.Param())
			return msg
		},
	)
}

// one_group accepts a regular expression with exactly one capture group
func registerOneGroup(v *validator.Validate, trans ut.Translator) {
	_ = v.RegisterValidation("one_group", func(fl validator.FieldLevel) bool {
		re, err := regexp.Compile(fl.Field().String())
		if err != nil {
			return false
		}
		return re.NumSubexp() == 1
	})
	_ = v.RegisterTranslation("one_group", trans,
		func(ut ut.Translator) error {
			return ut.Add("one_group", "{0} must be a valid regular expression with exactly one capture group", true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			msg, _ := ut.T("one_group", fe.Field())
			return msg
		},
	)
}
