package handler

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Validator は echo.Validator を go-playground/validator で実装する
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	//エラーのフィールド名はJSONの名前にする
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	//decimalは数値として比較する
	v.RegisterCustomTypeFunc(func(rv reflect.Value) interface{} {
		if d, ok := rv.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	if err := v.RegisterValidation("pastorpresent", pastOrPresent); err != nil {
		panic(fmt.Sprintf("register pastorpresent: %v", err))
	}

	return &Validator{v: v}
}

func pastOrPresent(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	return ok && !t.After(time.Now())
}

func (cv *Validator) Validate(i interface{}) error {
	return cv.v.Struct(i)
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "required field"
	case "min":
		return fmt.Sprintf("must have at least %s characters", fe.Param())
	case "max":
		return fmt.Sprintf("must have at most %s characters", fe.Param())
	case "gt":
		return "must be a positive value"
	case "url":
		return "must be a valid url"
	case "pastorpresent":
		return "date cannot be in the future"
	default:
		return fmt.Sprintf("failed on %s", fe.Tag())
	}
}
