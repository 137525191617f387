package ecode

// Business codes carried in failure responses.
const (
	OK = 0

	ServerErr          = -500
	ServiceUnavailable = -503
	StorageErr         = -507

	RequestErr       = -400
	Unauthorized     = -401
	AccessDenied     = -403
	NothingFound     = -404
	MethodNotAllowed = -405
	Conflict         = -409
)

var codeText = map[int]string{
	OK:                 "ok",
	ServerErr:          "Internal server error",
	ServiceUnavailable: "Service unavailable",
	StorageErr:         "Storage error",
	RequestErr:         "Invalid request",
	Unauthorized:       "Unauthorized",
	AccessDenied:       "Access denied",
	NothingFound:       "Not found",
	MethodNotAllowed:   "Method not allowed",
	Conflict:           "Conflict",
}

// Text returns the default message for a business code.
func Text(code int) string {
	if msg, ok := codeText[code]; ok {
		return msg
	}
	return codeText[ServerErr]
}
