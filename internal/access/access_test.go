package access

import (
	"testing"

	"github.com/ncobase/socialhub/ecode"

	"github.com/stretchr/testify/assert"
)

func TestRequireOwner(t *testing.T) {
	assert.NoError(t, RequireOwner("u1", "u1"))

	err := RequireOwner("u2", "u1", "You are not authorized to update this post")
	assert.True(t, ecode.IsForbidden(err))
	assert.EqualError(t, err, "You are not authorized to update this post")

	err = RequireOwner("", "")
	assert.True(t, ecode.IsForbidden(err))
	assert.EqualError(t, err, DefaultDenied)
}
