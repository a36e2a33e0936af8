package middleware

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes a JSON request body into v. Field validation is the
// job of the validation package; this only rejects malformed JSON.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}
