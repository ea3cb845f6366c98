package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	appErrors "github.com/noah-isme/roster-api/pkg/errors"
)

func TestCacheRepositoryWithoutClient(t *testing.T) {
	repo := NewCacheRepository(nil)
	ctx := context.Background()

	var students []string
	assert.ErrorIs(t, repo.Get(ctx, "roster:common:t1@x.com", &students), appErrors.ErrCacheMiss)
	assert.NoError(t, repo.Set(ctx, "roster:common:t1@x.com", []string{"a@x.com"}, time.Minute))
	assert.NoError(t, repo.DeleteByPattern(ctx, "roster:common:*"))
	assert.NoError(t, repo.Ping(ctx))
}
