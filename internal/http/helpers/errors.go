package helpers

import (
	"errors"
	"net/http"

	"github.com/dropDatabas3/restopos/internal/cms"
	httperrors "github.com/dropDatabas3/restopos/internal/http/errors"
	"github.com/dropDatabas3/restopos/internal/resource"
)

// known traduce errores conocidos del CMS y de los recursos.
// Un 400 del CMS sigue siendo 400; cualquier otro status del CMS es 500.
func known(err error) (*httperrors.AppError, bool) {
	var appErr *httperrors.AppError
	var ue *cms.UpstreamError
	switch {
	case errors.As(err, &appErr):
		return appErr, true
	case errors.As(err, &ue):
		if ue.Status == http.StatusBadRequest {
			return httperrors.ErrBadRequest.WithDetail(ue.Message).WithCause(err), true
		}
		return httperrors.ErrUpstreamFailure.WithDetail(ue.Message).WithCause(err), true
	case errors.Is(err, cms.ErrNotConfigured):
		return httperrors.ErrServiceUnavailable.WithDetail("cms not configured").WithCause(err), true
	case errors.Is(err, cms.ErrInvalidPayload):
		return httperrors.ErrBadGateway.WithDetail(err.Error()).WithCause(err), true
	case errors.Is(err, resource.ErrNotObject):
		return httperrors.ErrBadRequest.WithDetail(err.Error()).WithCause(err), true
	}
	return nil, false
}

// StoreError: lo no clasificado es una falla del store, 500 con su mensaje.
func StoreError(err error) *httperrors.AppError {
	if appErr, ok := known(err); ok {
		return appErr
	}
	return httperrors.ErrStoreFailure.WithDetail(err.Error()).WithCause(err)
}

// UpstreamError: lo no clasificado es una falla de transporte hacia el CMS,
// 500 con su mensaje.
func UpstreamError(err error) *httperrors.AppError {
	if appErr, ok := known(err); ok {
		return appErr
	}
	return httperrors.ErrUpstreamFailure.WithDetail(err.Error()).WithCause(err)
}
