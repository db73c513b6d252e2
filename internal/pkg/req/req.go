/*
Package req provides helper functions for HTTP request parsing and data binding.

It encapsulates the logic for parsing JSON request bodies and running declarative
struct validation, so handlers receive fully checked input structs.
*/
package req

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"skillswap/internal/pkg/errs"
)

// validate is the shared validator instance. It is safe for concurrent use.
var validate = validator.New(validator.WithRequiredStructEnabled())

// BindJSON binds the JSON data from the HTTP request body to the destination struct dst
// and then runs struct validation on it (see `validate` tags on input structs).
func BindJSON(r *http.Request, dst any) *errs.CustomError {
	contentType := r.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "application/json") {
		return errs.NewError(errs.ErrUnsupportedMediaType)
	}

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		return errs.NewError(errs.ErrInvalidJSONFormat)
	}

	if decoder.More() {
		return errs.NewError(errs.ErrExtraContentInBody)
	}

	return Validate(dst)
}

// Validate runs struct-level validation rules on dst.
// Validation failures are reported with the offending field names so the
// client can correct the request.
func Validate(dst any) *errs.CustomError {
	err := validate.Struct(dst)
	if err == nil {
		return nil
	}

	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		// Validation was attempted on a non-struct value.
		return errs.NewError(errs.ErrInvalidParams)
	}

	fields := make([]string, 0, len(vErrs))
	for _, fieldErr := range vErrs {
		fields = append(fields, fieldErr.Field())
	}

	return errs.NewError(errs.ErrValidationFailed, strings.Join(fields, ", "))
}
