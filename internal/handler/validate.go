package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"cultural-map/pkg/apierror"
)

func validateStruct(v *validator.Validate, payload any) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field()+": failed "+fe.Tag())
		}
		return apierror.New("BAD_REQUEST", "validation failed", strings.Join(fields, "; "), http.StatusBadRequest)
	}

	return apierror.New("BAD_REQUEST", "validation failed", "", http.StatusBadRequest)
}
