package version

import (
	"encoding/json"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetVersionInfo(t *testing.T) {
	info := GetVersionInfo()
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.NotEmpty(t, info.Version)
	assert.NotEmpty(t, info.Revision)
}

func TestInfoJSON(t *testing.T) {
	out, err := Info{Version: "v1.2.3", Revision: "abc1234"}.JSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "v1.2.3", decoded["version"])
	assert.NotContains(t, decoded, "modified")
}

func TestShort(t *testing.T) {
	assert.Equal(t, "0123456", short("0123456789abcdef"))
	assert.Equal(t, "abc", short("abc"))
}
