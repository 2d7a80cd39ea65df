package provider

import (
	"testing"

	"github.com/smallbiznis/telesim/internal/provider/adapters/sandbox"
	"github.com/smallbiznis/telesim/internal/provider/domain"
	"github.com/stretchr/testify/require"
)

func TestResolverRegisterAndResolve(t *testing.T) {
	resolver := NewResolver()
	resolver.Register("sandbox", sandbox.New(15.0))

	contract, err := resolver.Resolve("sandbox")
	require.NoError(t, err)
	require.NotNil(t, contract)

	_, err = resolver.Resolve("airalo")
	require.ErrorIs(t, err, domain.ErrUnknownProvider)
}
