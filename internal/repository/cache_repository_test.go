package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/horario-planner/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil, nil)
	ctx := context.Background()

	var dest map[string]string
	assert.ErrorIs(t, repo.Get(ctx, "catalog:faculties", &dest), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "catalog:faculties", map[string]string{"a": "b"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "catalog:*"))
	assert.NoError(t, repo.Ping(ctx))
}
