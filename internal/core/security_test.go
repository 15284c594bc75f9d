// AngelaMos | 2026
// security_test.go

package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	sum, n, err := Checksum(strings.NewReader("hello"))
	require.NoError(t, err)

	assert.Equal(t, int64(5), n)
	assert.Len(t, sum, 64)

	again, _, err := Checksum(strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, sum, again)

	other, _, err := Checksum(strings.NewReader("hello!"))
	require.NoError(t, err)
	assert.NotEqual(t, sum, other)
}

func TestHashIdentifier(t *testing.T) {
	assert.Empty(t, HashIdentifier("", "key"))

	a := HashIdentifier("203.0.113.7", "sitehub")
	assert.Len(t, a, 64)
	assert.Equal(t, a, HashIdentifier(" 203.0.113.7 ", "sitehub"))
	assert.NotEqual(t, a, HashIdentifier("203.0.113.7", "other"))
	assert.NotEqual(t, a, HashIdentifier("203.0.113.8", "sitehub"))
	assert.NotContains(t, a, "203")
	assert.Len(t, HashIdentifier("203.0.113.7", ""), 64)
}
