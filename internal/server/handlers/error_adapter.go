package handlers

import (
	"net/http"

	apperrors "github.com/handlescout/handlescout/internal/errors"
)

// ErrorResponder writes an error to the client. The server package swaps in
// its centralized handler at startup; handlers stay decoupled from it.
type ErrorResponder func(http.ResponseWriter, *http.Request, error)

var httpErrorResponder ErrorResponder = apperrors.RespondWithError

// SetHTTPErrorResponder overrides how handlers report errors. Passing nil
// restores the default envelope responder.
func SetHTTPErrorResponder(responder ErrorResponder) {
	if responder == nil {
		httpErrorResponder = apperrors.RespondWithError
		return
	}
	httpErrorResponder = responder
}

// ResetHTTPErrorResponder restores the default responder, for tests.
func ResetHTTPErrorResponder() {
	httpErrorResponder = apperrors.RespondWithError
}

func respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	httpErrorResponder(w, r, err)
}
