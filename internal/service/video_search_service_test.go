package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"course_gen_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSearchServer(t *testing.T, videoIDs []string, calls *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(calls, 1)

		type item struct {
			ID struct {
				VideoID string `json:"videoId"`
			} `json:"id"`
		}
		items := make([]item, 0, len(videoIDs))
		for _, id := range videoIDs {
			var it item
			it.ID.VideoID = id
			items = append(items, it)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"items": items})
	}))
}

func newTestSearchService(t *testing.T, serverURL string) *VideoSearchService {
	t.Helper()
	svc := NewVideoSearchService(config.YouTubeConfig{
		APIKey:    "test-key",
		CacheFile: filepath.Join(t.TempDir(), "cache.json"),
	})
	svc.searchBaseURL = serverURL
	svc.videosBaseURL = serverURL
	return svc
}

func TestLookupCachesPositiveResult(t *testing.T) {
	var calls int64
	server := newSearchServer(t, []string{"dQw4w9WgXcQ"}, &calls)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	assert.Equal(t, "dQw4w9WgXcQ", svc.Lookup("go tutorial"))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))

	// 大小写和空白折叠到同一个键
	assert.Equal(t, "dQw4w9WgXcQ", svc.Lookup("  Go Tutorial  "))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestLookupCachesNegativeResult(t *testing.T) {
	var calls int64
	server := newSearchServer(t, nil, &calls)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	assert.Equal(t, "", svc.Lookup("nothing matches this"))
	assert.Equal(t, "", svc.Lookup("nothing matches this"))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestLookupExpiredEntryRefetches(t *testing.T) {
	var calls int64
	server := newSearchServer(t, []string{"abcdefghijk"}, &calls)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	stale := map[string]searchCacheEntry{
		"old query": {VideoID: "stalevideo1", CachedAt: time.Now().Add(-8 * 24 * time.Hour)},
	}
	data, err := json.Marshal(stale)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(svc.config.CacheFile, data, 0644))

	assert.Equal(t, "abcdefghijk", svc.Lookup("old query"))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func TestLookupEmptyQuery(t *testing.T) {
	var calls int64
	server := newSearchServer(t, []string{"dQw4w9WgXcQ"}, &calls)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	assert.Equal(t, "", svc.Lookup("   "))
	assert.EqualValues(t, 0, atomic.LoadInt64(&calls))
}

func TestLookupUpstreamFailureNotCached(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	// 故障不是负结果，不应该写缓存
	assert.Equal(t, "", svc.Lookup("flaky"))
	assert.Equal(t, "", svc.Lookup("flaky"))
	assert.EqualValues(t, 2, atomic.LoadInt64(&calls))
}

func TestLookupCorruptedCacheFile(t *testing.T) {
	var calls int64
	server := newSearchServer(t, []string{"dQw4w9WgXcQ"}, &calls)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)
	require.NoError(t, os.WriteFile(svc.config.CacheFile, []byte("not json{"), 0644))

	assert.Equal(t, "dQw4w9WgXcQ", svc.Lookup("go tutorial"))
	assert.EqualValues(t, 1, atomic.LoadInt64(&calls))
}

func newVideosServer(t *testing.T, uploadStatus, privacyStatus string, embeddable bool, found bool) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !found {
			json.NewEncoder(w).Encode(map[string]interface{}{"items": []interface{}{}})
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []map[string]interface{}{
				{
					"snippet": map[string]interface{}{
						"title": "Some Video",
						"thumbnails": map[string]interface{}{
							"default": map[string]string{"url": "https://img.example/default.jpg"},
							"high":    map[string]string{"url": "https://img.example/high.jpg"},
						},
					},
					"status": map[string]interface{}{
						"uploadStatus":  uploadStatus,
						"privacyStatus": privacyStatus,
						"embeddable":    embeddable,
					},
				},
			},
		})
	}))
}

func TestValidateVideoPlayable(t *testing.T) {
	server := newVideosServer(t, "processed", "public", true, true)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	verdict, err := svc.ValidateVideo("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.True(t, verdict.Playable)
	assert.Empty(t, verdict.Reason)
	assert.Equal(t, "https://img.example/high.jpg", verdict.Thumbnail)
	assert.Equal(t, "Some Video", verdict.Title)
}

func TestValidateVideoPrivate(t *testing.T) {
	server := newVideosServer(t, "processed", "private", true, true)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	verdict, err := svc.ValidateVideo("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, verdict.Playable)
	assert.Equal(t, "video is private", verdict.Reason)
}

func TestValidateVideoNotEmbeddable(t *testing.T) {
	server := newVideosServer(t, "processed", "public", false, true)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	verdict, err := svc.ValidateVideo("dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.False(t, verdict.Playable)
	assert.Equal(t, "embedding disabled", verdict.Reason)
}

func TestValidateVideoNotFound(t *testing.T) {
	server := newVideosServer(t, "", "", false, false)
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	verdict, err := svc.ValidateVideo("missingvide0")
	require.NoError(t, err)
	assert.False(t, verdict.Playable)
	assert.Equal(t, "video not found", verdict.Reason)
}

func TestValidateVideoUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	svc := newTestSearchService(t, server.URL)

	_, err := svc.ValidateVideo("dQw4w9WgXcQ")
	assert.Error(t, err)
}

func TestSearchDisabledWithoutKey(t *testing.T) {
	svc := NewVideoSearchService(config.YouTubeConfig{CacheFile: filepath.Join(t.TempDir(), "cache.json")})

	assert.False(t, svc.Enabled())
	_, err := svc.SearchVideos("anything", 3)
	assert.Error(t, err)
}
