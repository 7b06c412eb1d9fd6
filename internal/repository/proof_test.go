package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProofRepositorySaveAndRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	repo, err := NewProofRepository(dir)
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := repo.Save(ctx, "../../Receipt.PNG", strings.NewReader("png bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, ProofURLPrefix))
	assert.True(t, strings.HasSuffix(ref, ".png"))

	name := strings.TrimPrefix(ref, ProofURLPrefix)
	assert.NotContains(t, name, "/")

	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "png bytes", string(data))

	other, err := repo.Save(ctx, "Receipt.PNG", strings.NewReader("x"))
	require.NoError(t, err)
	assert.NotEqual(t, ref, other)

	require.NoError(t, repo.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(dir, name))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, repo.Remove(ctx, ref), "removing twice is not an error")
}
