// Package validation checks submitted forms against their struct tags and turns
// the failures into one readable message per field.
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate

	hhmmPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
		_ = validate.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
			_, err := time.Parse("2006-01-02", fl.Field().String())
			return err == nil
		})
		_ = validate.RegisterValidation("hhmm", func(fl validator.FieldLevel) bool {
			return hhmmPattern.MatchString(fl.Field().String())
		})
	})
	return validate
}

// Struct validates form and returns an *appErrors.ValidationError listing the
// first failure of every field, or nil.
func Struct(form any) error {
	err := instance().Struct(form)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		name := fieldName(fe)
		if _, seen := fields[name]; seen {
			continue
		}
		fields[name] = message(name, fe)
	}
	return &appErrors.ValidationError{Fields: fields}
}

// Merge folds extra field errors into err, which may be nil.
func Merge(err error, extra map[string]string) error {
	if len(extra) == 0 {
		return err
	}
	if err == nil {
		return &appErrors.ValidationError{Fields: extra}
	}
	verr, ok := appErrors.AsValidation(err)
	if !ok {
		return err
	}
	for k, v := range extra {
		if _, exists := verr.Fields[k]; !exists {
			verr.Fields[k] = v
		}
	}
	return verr
}

// fieldName strips slice indexes so "tags[2]" reports as "tags".
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}

func message(name string, fe validator.FieldError) string {
	label := strings.ReplaceAll(name, "_", " ")
	isCollection := false
	switch fe.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		isCollection = true
	}
	// dive errors point at an element rather than the collection itself
	element := strings.Contains(fe.Field(), "[")

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "email":
		return "invalid email format"
	case "url":
		return "invalid URL"
	case "isodate":
		return label + " must be a date in YYYY-MM-DD format"
	case "hhmm":
		return label + " must be a time in HH:MM format"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return label + " does not match"
	case "unique":
		return label + " must not contain duplicates"
	case "min":
		if isCollection {
			return fmt.Sprintf("select at least %s %s", fe.Param(), label)
		}
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "max":
		if isCollection {
			return fmt.Sprintf("at most %s %s", fe.Param(), label)
		}
		if element {
			return fmt.Sprintf("each %s must be at most %s characters", strings.TrimSuffix(label, "s"), fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	}
	return label + " is invalid"
}
