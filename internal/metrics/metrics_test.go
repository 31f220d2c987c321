package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestRegisterIsIdempotent(t *testing.T) {
	reg := prometheus.NewRegistry()

	require.NoError(t, Register(reg))
	require.NoError(t, Register(reg))

	families, err := reg.Gather()
	require.NoError(t, err)
	// Vec collectors only appear once a label set has been observed.
	require.NotEmpty(t, families)
}
