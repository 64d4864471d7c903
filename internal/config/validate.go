package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

type validatorSvc struct {
	validate *validator.Validate
	trans    ut.Translator
}

var (
	vOnce sync.Once
	vSvc  *validatorSvc
)

// getValidator builds the validator once, with English messages and the
// config file's key names in place of Go field names.
func getValidator() *validatorSvc {
	vOnce.Do(func() {
		enLoc := en.New()
		uni := ut.New(enLoc, enLoc)
		trans, _ := uni.GetTranslator("en")

		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			tag := fld.Tag.Get("mapstructure")
			if tag == "" || tag == "-" {
				return fld.Name
			}
			if idx := strings.Index(tag, ","); idx >= 0 {
				tag = tag[:idx]
			}
			return tag
		})

		_ = en_translations.RegisterDefaultTranslations(v, trans)
		registerTranslation(v, trans, "min", "{0} must be at least {1}", true)
		registerTranslation(v, trans, "max", "{0} must be at most {1}", true)
		registerTranslation(v, trans, "startswith", "{0} must start with {1}", true)
		registerTranslation(v, trans, "required_if", "{0} is required when {1}", true)

		vSvc = &validatorSvc{validate: v, trans: trans}
	})
	return vSvc
}

func registerTranslation(v *validator.Validate, trans ut.Translator, tag, text string, override bool) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, override)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			param := fe.Param()
			if tag == "required_if" {
				param = describeCondition(param)
			}
			msg, _ := ut.T(tag, fieldPath(fe), param)
			return msg
		},
	)
}

// describeCondition renders "Enabled true Exporter file" as
// "enabled is true and exporter is file".
func describeCondition(param string) string {
	parts := strings.Fields(param)
	var conds []string
	for i := 0; i+1 < len(parts); i += 2 {
		conds = append(conds, strings.ToLower(parts[i])+" is "+parts[i+1])
	}
	return strings.Join(conds, " and ")
}

// fieldPath turns "Config.api.base_url" into "api.base_url".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return ns
}

// Validate checks cfg. All problems are reported together, each on its own
// line, wrapped in ErrInvalid.
func Validate(cfg Config) error {
	svc := getValidator()
	err := svc.validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msg := fe.Translate(svc.trans)
		// Default translations use the bare field name; qualify it.
		if name := fe.Field(); !strings.Contains(msg, fieldPath(fe)) && strings.HasPrefix(msg, name) {
			msg = fieldPath(fe) + strings.TrimPrefix(msg, name)
		}
		msgs = append(msgs, msg)
	}
	return fmt.Errorf("%w:\n  %s", ErrInvalid, strings.Join(msgs, "\n  "))
}
