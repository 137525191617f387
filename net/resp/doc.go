// Package resp provides the HTTP response helpers shared by every handler.
//
// Successful responses render the payload as-is, or {"message": "..."} when
// the payload is a string:
//
//	resp.Success(w, gin.H{"user": profile})
//	resp.WithStatusCode(w, http.StatusCreated, "Post created successfully")
//
// Failures render {"code": <business code>, "message": "...", "errors": ...}:
//
//	resp.Fail(w, resp.BadRequest("All fields are required"))
//	resp.Fail(w, resp.FromError(err))
//
// FromError maps ecode kinds to status codes. Internal failures are reported
// with a generic message; the cause stays in the logs.
package resp
