package service

import (
	"context"
	"sync"
	"testing"

	"go-benchadmin/internal/domain/model"
	"go-benchadmin/internal/repository/dao"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveOrCreateBlankIsNoPlatform(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(dao.NewPlatformDAO(db))

	id, err := svc.ResolveOrCreate(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, id)

	var n int64
	require.NoError(t, db.Model(&model.Platform{}).Count(&n).Error)
	assert.Zero(t, n, "blank name must not create a row")
}

func TestResolveOrCreateIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(dao.NewPlatformDAO(db))
	ctx := context.Background()

	first, err := svc.ResolveOrCreate(ctx, "EP4")
	require.NoError(t, err)
	require.NotNil(t, first)

	second, err := svc.ResolveOrCreate(ctx, "EP4")
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, *first, *second)

	var n int64
	require.NoError(t, db.Model(&model.Platform{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestResolveOrCreateConcurrentConverges(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(dao.NewPlatformDAO(db))

	const workers = 8
	ids := make([]int64, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			id, err := svc.ResolveOrCreate(context.Background(), "MEB")
			if assert.NoError(t, err) && assert.NotNil(t, id) {
				ids[i] = *id
			}
		}(i)
	}
	wg.Wait()

	for _, id := range ids {
		assert.Equal(t, ids[0], id, "all resolutions must see one platform id")
	}
	var n int64
	require.NoError(t, db.Model(&model.Platform{}).Count(&n).Error)
	assert.EqualValues(t, 1, n)
}

func TestPlatformList(t *testing.T) {
	db := newTestDB(t)
	svc := NewPlatformService(dao.NewPlatformDAO(db))
	seedPlatform(t, db, "EP4")
	seedPlatform(t, db, "MEB")

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
