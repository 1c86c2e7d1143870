package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/flowlens/flowlens/pkg/cfg"
	"github.com/flowlens/flowlens/pkg/djgraph"
	"github.com/flowlens/flowlens/pkg/store"
	"github.com/flowlens/flowlens/pkg/xerrors"
)

// errorPayload is the JSON shape of all error responses.
type errorPayload struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    xerrors.Code `json:"code"`
	Message string       `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// respondError maps an error to an HTTP status and a coded JSON payload.
func respondError(w http.ResponseWriter, err error) {
	status, code := classify(err)
	respondJSON(w, status, errorPayload{Error: errorBody{
		Code:    code,
		Message: xerrors.UserMessage(err),
	}})
}

// classify resolves the status and machine-readable code for an error.
// Sentinel errors from the library packages map to specific codes even
// when they were never wrapped in an xerrors.Error.
func classify(err error) (int, xerrors.Code) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound, xerrors.CodeAnalysisNotFound
	case errors.Is(err, djgraph.ErrUnreachableEndpoint):
		return http.StatusUnprocessableEntity, xerrors.CodeUnreachableVertex
	case errors.Is(err, djgraph.ErrMalformedDomTree):
		return http.StatusUnprocessableEntity, xerrors.CodeMalformedDomTree
	case errors.Is(err, djgraph.ErrUnknownKind):
		return http.StatusBadRequest, xerrors.CodeInvalidGraph
	case errors.Is(err, cfg.ErrUnknownVertex),
		errors.Is(err, cfg.ErrUnknownSource),
		errors.Is(err, cfg.ErrUnknownTarget),
		errors.Is(err, cfg.ErrDuplicateVertex):
		return http.StatusBadRequest, xerrors.CodeInvalidGraph
	}

	switch code := xerrors.GetCode(err); code {
	case xerrors.CodeInvalidInput, xerrors.CodeInvalidFormat, xerrors.CodeInvalidGraph:
		return http.StatusBadRequest, code
	case xerrors.CodeNotFound, xerrors.CodeAnalysisNotFound:
		return http.StatusNotFound, code
	case xerrors.CodeUnreachableVertex, xerrors.CodeMalformedDomTree:
		return http.StatusUnprocessableEntity, code
	case xerrors.CodeUnsupported:
		return http.StatusNotImplemented, code
	case xerrors.CodeStore, xerrors.CodeCache, xerrors.CodeInternal:
		return http.StatusInternalServerError, code
	}

	return http.StatusInternalServerError, xerrors.CodeInternal
}
