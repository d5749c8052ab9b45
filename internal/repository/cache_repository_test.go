package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/tuteur-adom-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var dest []string
	assert.ErrorIs(t, repo.Get(ctx, "teachers:search:x", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "teachers:search:x", []string{"a"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "teachers:search:*"))
	assert.NoError(t, repo.Close())
}
