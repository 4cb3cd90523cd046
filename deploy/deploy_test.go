package deploy

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeployPrmValidation(t *testing.T) {
	err := Deploy(context.Background(), Prm{})
	require.ErrorContains(t, err, "missing blockchain client")
}
