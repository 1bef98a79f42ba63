package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	v := String()
	require.NotEmpty(t, v)
	// Stable across calls within one binary.
	require.Equal(t, v, String())
}
