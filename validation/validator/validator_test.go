package validator

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	UserName string `json:"userName" validate:"required,max=255"`
	Email    string `json:"email" validate:"required,email"`
	Status   string `json:"status" validate:"omitempty,oneof=private public"`
}

func TestValidateStruct(t *testing.T) {
	errs := ValidateStruct(&signup{UserName: "ada", Email: "ada@example.com"})
	assert.Empty(t, errs)

	errs = ValidateStruct(&signup{Email: "nope", Status: "hidden"})
	assert.Equal(t, "The field 'userName' is required.", errs["userName"])
	assert.Equal(t, "The field 'email' must be a valid email address.", errs["email"])
	assert.Equal(t, "The field 'status' must be one of private public.", errs["status"])

	assert.True(t, HasTag(&signup{}, "required"))
	assert.False(t, HasTag(&signup{UserName: "a", Email: "bad"}, "required"))
}

var (
	pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")
	gifHeader = []byte("GIF89a\x01\x00\x01\x00\x00\x00\x00;")
	mp4Header = []byte("\x00\x00\x00\x18ftypmp42\x00\x00\x00\x00mp42isom")
)

func TestDetectMediaAccepts(t *testing.T) {
	for name, body := range map[string][]byte{"png": pngHeader, "gif": gifHeader, "mp4": mp4Header} {
		t.Run(name, func(t *testing.T) {
			media, r, err := DetectMedia(bytes.NewReader(body))
			require.NoError(t, err)
			assert.Equal(t, name == "mp4", media.IsVideo)
			assert.Equal(t, "."+name, media.Extension)

			replayed, err := io.ReadAll(r)
			require.NoError(t, err)
			assert.Equal(t, body, replayed)
		})
	}
}

func TestDetectMediaRejects(t *testing.T) {
	_, _, err := DetectMedia(strings.NewReader("just some text"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)

	_, _, err = DetectMedia(strings.NewReader("%PDF-1.4\n"))
	assert.ErrorIs(t, err, ErrUnsupportedMedia)
}

func TestDetectMediaReplaysLargeBodies(t *testing.T) {
	body := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 10000)...)
	_, r, err := DetectMedia(bytes.NewReader(body))
	require.NoError(t, err)
	replayed, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Len(t, replayed, len(body))
}
