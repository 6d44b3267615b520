package helpers

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Validator is implemented by request DTOs that can validate themselves.
// Validate returns a list of human-readable problems, empty if the value is
// well-formed.
type Validator interface {
	Validate() []string
}

// DecodeAndValidate decodes the request body into dst, rejecting unknown
// fields, and runs dst.Validate. On failure it writes a bad_request error
// response and returns false; the handler should return immediately.
func DecodeAndValidate[T Validator](w http.ResponseWriter, r *http.Request, dst T) bool {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, "invalid request body")
		return false
	}
	if problems := dst.Validate(); len(problems) > 0 {
		WriteJSONError(w, http.StatusBadRequest, ErrCodeBadRequest, strings.Join(problems, "; "))
		return false
	}
	return true
}
