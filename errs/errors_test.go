package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDerivationError(t *testing.T) {
	err := fmt.Errorf("generate: %w", Derivation("collapse", "P_end", 0, ErrDomain))

	require.ErrorIs(t, err, ErrDomain)

	var derr *DerivationError
	require.True(t, errors.As(err, &derr))
	require.Equal(t, "collapse", derr.Phase)
	require.Equal(t, "P_end", derr.Quantity)
	require.Contains(t, err.Error(), `phase "collapse": P_end = 0: math domain error`)
}
