package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/dyluth/agnr/pkg/catalog"
	"github.com/dyluth/agnr/pkg/ribbon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShowEntry(t *testing.T) {
	client, _ := setupCatalog(t)
	ctx := context.Background()

	t.Run("existing entry", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, ShowEntry(ctx, client, "415", &buf))

		var e catalog.Entry
		require.NoError(t, json.Unmarshal(buf.Bytes(), &e))
		assert.Equal(t, "415", e.Name)
		assert.Equal(t, []ribbon.Slice{{Low: 0, High: 4}, {Low: 1, High: 5}}, e.Spec)
	})

	t.Run("missing entry", func(t *testing.T) {
		var buf bytes.Buffer
		err := ShowEntry(ctx, client, "zzz", &buf)
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
		assert.Contains(t, err.Error(), "spec 'zzz' not found in namespace 'test-ns'")
		assert.Empty(t, buf.String())
	})

	t.Run("undecodable name", func(t *testing.T) {
		var buf bytes.Buffer
		err := ShowEntry(ctx, client, "41", &buf)
		require.Error(t, err)
		assert.False(t, IsNotFound(err))
		assert.ErrorIs(t, err, ribbon.ErrInvalidName)
	})
}
