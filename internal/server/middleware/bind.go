package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"

	"github.com/cstockton/go-conv"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// BindAndValidate binds the request body, params, query and `header:"..."`
// tagged fields into req, then validates it. Failures become 400 responses.
func BindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		resp := NewResponseError(http.StatusBadRequest, "", "Invalid request format")
		resp.Err = err
		return resp
	}

	if err := bindHeader(c.Request().Header, req); err != nil {
		resp := NewResponseError(http.StatusBadRequest, "", err.Error())
		resp.Err = err
		return resp
	}

	if err := c.Validate(req); err != nil {
		resp := NewResponseError(http.StatusBadRequest, "", validationMessage(err))
		resp.Err = err
		return resp
	}

	return nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Param() != "" {
			return fmt.Sprintf("%s failed on %s=%s", fe.Field(), fe.Tag(), fe.Param())
		}
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
	return err.Error()
}

// bindHeader decode http header to struct by tag `header:"<header_name>"`.
// Absent headers leave the field untouched.
// out must be a pointer to a struct
func bindHeader(header http.Header, dst any) error {
	getValueFn := func(tagValue string) (any, error) {
		return header.Get(tagValue), nil
	}

	return bindStruct(dst, "header", getValueFn)
}

// bindStruct decode to struct by custom tag `tagName:"tagValue"`
// dst must be a pointer to a struct
func bindStruct(dst any, tagName string, getValueFn func(tagValue string) (any, error)) error {
	ptr := reflect.ValueOf(dst)
	if ptr.Kind() != reflect.Ptr {
		return fmt.Errorf("non-pointer passed to Unmarshal")
	}

	indirect := reflect.Indirect(ptr)
	structType := indirect.Type()
	if structType.Kind() != reflect.Struct {
		return nil
	}

	for i := range structType.NumField() {
		structField := structType.Field(i)
		tagValue := structField.Tag.Get(tagName)
		if tagValue == "-" || tagValue == "" {
			continue
		}

		field := indirect.Field(i)
		value, err := getValueFn(tagValue)
		if err != nil {
			return err
		}
		if s, ok := value.(string); ok && s == "" {
			continue
		}
		if err := conv.Infer(field, value); err != nil {
			return fmt.Errorf("cannot parse %s.%s as %s from: %#v / %s",
				structType.Name(), structField.Name, field.Type(), value, err)
		}
	}

	return nil
}
