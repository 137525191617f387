// Package access holds the ownership check shared by every update and
// delete path.
package access

import "github.com/ncobase/socialhub/ecode"

// DefaultDenied is used when no message is given.
const DefaultDenied = "You are not authorized to perform this action"

// RequireOwner returns an ecode.Forbidden error unless actorID owns the
// entity. An empty actor never owns anything.
func RequireOwner(actorID, ownerID string, message ...string) error {
	if actorID != "" && actorID == ownerID {
		return nil
	}
	msg := DefaultDenied
	if len(message) > 0 && message[0] != "" {
		msg = message[0]
	}
	return ecode.Forbidden(msg)
}
