package localstore

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/portfolio-space/core/internal/pkg/blob"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutDelete(t *testing.T) {
	b, err := New(t.TempDir(), "/objects/")
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.Put(ctx, "projects/1_a.png", strings.NewReader("payload"), 7, "image/png"))
	path, err := b.Path("projects/1_a.png")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))

	assert.Equal(t, "/objects/projects/1_a.png", b.URL("projects/1_a.png"))
	key, ok := b.KeyFromURL("/objects/projects/1_a.png")
	require.True(t, ok)
	assert.Equal(t, "projects/1_a.png", key)

	require.NoError(t, b.Delete(ctx, "projects/1_a.png"))
	assert.ErrorIs(t, b.Delete(ctx, "projects/1_a.png"), blob.ErrNotExist)
}

func TestPathRejectsTraversal(t *testing.T) {
	b, err := New(t.TempDir(), "/objects")
	require.NoError(t, err)

	_, err = b.Path("../secret")
	require.Error(t, err)
	_, err = b.Path("projects/../../secret")
	require.Error(t, err)
	_, err = b.Path("")
	require.Error(t, err)
}
