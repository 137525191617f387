package resp

import (
	"encoding/json"
	"net/http"

	"github.com/ncobase/socialhub/ecode"
)

// Exception is an error response. Status is the HTTP status and is not
// rendered; the body carries Code, Message and, for validation failures,
// the per-field Errors.
type Exception struct {
	Status  int    `json:"-"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Errors  any    `json:"errors,omitempty"`
}

// newException builds an error response. errs, when given, fills Errors.
func newException(status, code int, message string, errs ...any) *Exception {
	e := &Exception{Status: status, Code: code, Message: message}
	if len(errs) > 0 {
		e.Errors = errs[0]
	}
	return e
}

// Success writes data with 200.
func Success(w http.ResponseWriter, data ...any) {
	WithStatusCode(w, http.StatusOK, data...)
}

// WithStatusCode writes data with status. A string is rendered as
// {"message": "..."}, no data as {"message": "ok"}, anything else as is.
func WithStatusCode(w http.ResponseWriter, status int, data ...any) {
	var body any = map[string]any{"message": "ok"}
	if len(data) > 0 && data[0] != nil {
		if msg, ok := data[0].(string); ok {
			body = map[string]any{"message": msg}
		} else {
			body = data[0]
		}
	}
	writeJSON(w, status, body)
}

// Fail writes r. A nil r becomes a 500.
func Fail(w http.ResponseWriter, r *Exception) {
	if r == nil {
		r = &Exception{Status: http.StatusInternalServerError, Code: ecode.ServerErr}
	}

	out := *r
	if out.Status == 0 {
		out.Status = http.StatusBadRequest
	}
	if out.Code == 0 {
		out.Code = ecode.RequestErr
	}
	if out.Message == "" {
		out.Message = ecode.Text(out.Code)
	}
	writeJSON(w, out.Status, &out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
