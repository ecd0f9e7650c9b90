package di_test

import (
	"testing"

	"github.com/pocketlab/organic-scanner/internal/di"
	"github.com/pocketlab/organic-scanner/internal/httpapi"
	"github.com/stretchr/testify/require"
)

func TestBuildContainerWiresServer(t *testing.T) {
	container, err := di.BuildContainer()
	require.NoError(t, err)

	err = container.Invoke(func(server *httpapi.Server) {
		require.NotNil(t, server)
	})
	require.NoError(t, err)
}
