package bootstrap

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kardex-api/pkg/config"
	"github.com/jhoicas/kardex-api/pkg/logger"
)

func TestOpenStorage_Memory(t *testing.T) {
	s, err := OpenStorage(context.Background(), config.DBConfig{Driver: "memory"}, logger.Nop())
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "memory", s.Driver)
	assert.NotNil(t, s.TxRunner)
	assert.NotNil(t, s.Products)
	assert.NotNil(t, s.Dashboard)

	ids, err := s.Products.ListAllIDs(context.Background(), "t1")
	require.NoError(t, err)
	assert.Empty(t, ids)
}
