package digest

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunCachePopulatesOnce(t *testing.T) {
	cache := NewRunCache()

	var calls int32
	populate := func() (interface{}, error) {
		atomic.AddInt32(&calls, 1)
		return []PostPreview{{Title: "hello"}}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := cache.GetOrPopulate(CacheRecentPosts, populate)
			assert.NoError(t, err)
			assert.Len(t, v.([]PostPreview), 1)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestRunCacheErrorNotCached(t *testing.T) {
	cache := NewRunCache()

	boom := errors.New("query failed")
	_, err := cache.GetOrPopulate(CacheRecentPhotos, func() (interface{}, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	v, err := cache.GetOrPopulate(CacheRecentPhotos, func() (interface{}, error) {
		return "recovered", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "recovered", v)
}

func TestRunCacheClear(t *testing.T) {
	cache := NewRunCache()

	calls := 0
	populate := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := cache.GetOrPopulate(CacheEditorialContent, populate)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	cache.Clear()

	v, err = cache.GetOrPopulate(CacheEditorialContent, populate)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}
