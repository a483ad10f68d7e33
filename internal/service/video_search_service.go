package service

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"course_gen_backend/internal/config"
	"course_gen_backend/pkg/logger"
	"course_gen_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// 搜索缓存 7 天过期；过期条目按未命中处理
const searchCacheTTL = 7 * 24 * time.Hour

type searchCacheEntry struct {
	VideoID  string    `json:"video_id"`
	CachedAt time.Time `json:"cached_at"`
}

// VideoSearchService YouTube Data API v3 搜索客户端，前面挡一层磁盘缓存。
// 缓存是尽力而为的：跨进程写入仍可能互相覆盖，只影响命中率不影响正确性。
type VideoSearchService struct {
	config config.YouTubeConfig
	client *http.Client

	// 测试里指到 httptest 服务地址
	searchBaseURL string
	videosBaseURL string

	mu sync.Mutex
}

func NewVideoSearchService(cfg config.YouTubeConfig) *VideoSearchService {
	return &VideoSearchService{
		config:        cfg,
		client:        &http.Client{Timeout: 10 * time.Second},
		searchBaseURL: "https://www.googleapis.com/youtube/v3/search",
		videosBaseURL: "https://www.googleapis.com/youtube/v3/videos",
	}
}

func (s *VideoSearchService) Enabled() bool {
	return s.config.APIKey != ""
}

// Lookup 缓存在先的单视频查找。查不到、上游挂了都返回空串，调用方分不出两者。
// 空结果同样写缓存（负缓存），重复的死查询不再烧配额。
func (s *VideoSearchService) Lookup(query string) string {
	key := strings.ToLower(strings.TrimSpace(query))
	if key == "" {
		return ""
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cache := s.loadCache()
	if entry, ok := cache[key]; ok && time.Since(entry.CachedAt) < searchCacheTTL {
		monitoring.SearchCacheCounter.WithLabelValues("hit").Inc()
		return entry.VideoID
	}
	monitoring.SearchCacheCounter.WithLabelValues("miss").Inc()

	ids, err := s.search(query, 1)
	if err != nil {
		logger.Log.Warn("video search failed", zap.String("query", query), zap.Error(err))
		return ""
	}

	videoID := ""
	if len(ids) > 0 {
		videoID = ids[0]
	}

	cache[key] = searchCacheEntry{VideoID: videoID, CachedAt: time.Now()}
	s.saveCache(cache)

	return videoID
}

// SearchVideos 课程模块补视频用，一次取多个，不走缓存
func (s *VideoSearchService) SearchVideos(query string, max int) ([]string, error) {
	return s.search(query, max)
}

type youtubeSearchResponse struct {
	Items []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
	} `json:"items"`
}

func (s *VideoSearchService) search(query string, max int) ([]string, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("youtube api key not configured")
	}
	if max <= 0 {
		max = 1
	}

	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("type", "video")
	params.Set("q", query)
	params.Set("maxResults", fmt.Sprintf("%d", max))
	params.Set("key", s.config.APIKey)

	resp, err := s.client.Get(s.searchBaseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube search error (status %d)", resp.StatusCode)
	}

	var result youtubeSearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(result.Items))
	for _, item := range result.Items {
		if item.ID.VideoID != "" {
			ids = append(ids, item.ID.VideoID)
		}
	}
	return ids, nil
}

// VideoVerdict 视频可播性判定结果
type VideoVerdict struct {
	VideoID    string `json:"videoId"`
	Playable   bool   `json:"playable"`
	Reason     string `json:"reason,omitempty"`
	Thumbnail  string `json:"thumbnail,omitempty"`
	Title      string `json:"title,omitempty"`
	Embeddable bool   `json:"embeddable"`
}

type youtubeVideosResponse struct {
	Items []struct {
		Snippet struct {
			Title      string `json:"title"`
			Thumbnails map[string]struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"snippet"`
		Status struct {
			UploadStatus  string `json:"uploadStatus"`
			PrivacyStatus string `json:"privacyStatus"`
			Embeddable    bool   `json:"embeddable"`
		} `json:"status"`
	} `json:"items"`
}

// ValidateVideo 调 /videos 接口查公开性、可嵌入性和处理状态。
// 上游失败在这里没有安全的回退值，错误原样抛给调用方转 502。
func (s *VideoSearchService) ValidateVideo(videoID string) (*VideoVerdict, error) {
	if !s.Enabled() {
		return nil, fmt.Errorf("youtube api key not configured")
	}

	params := url.Values{}
	params.Set("part", "snippet,status")
	params.Set("id", videoID)
	params.Set("key", s.config.APIKey)

	resp, err := s.client.Get(s.videosBaseURL + "?" + params.Encode())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("youtube videos error (status %d)", resp.StatusCode)
	}

	var result youtubeVideosResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Items) == 0 {
		return &VideoVerdict{VideoID: videoID, Playable: false, Reason: "video not found"}, nil
	}

	item := result.Items[0]
	verdict := &VideoVerdict{
		VideoID:    videoID,
		Title:      item.Snippet.Title,
		Embeddable: item.Status.Embeddable,
	}

	switch {
	case item.Status.UploadStatus != "processed":
		verdict.Reason = "video not processed"
	case item.Status.PrivacyStatus == "private":
		verdict.Reason = "video is private"
	case !item.Status.Embeddable:
		verdict.Reason = "embedding disabled"
	default:
		verdict.Playable = true
	}

	// 取能拿到的最高清缩略图
	for _, size := range []string{"maxres", "high", "medium", "default"} {
		if thumb, ok := item.Snippet.Thumbnails[size]; ok && thumb.URL != "" {
			verdict.Thumbnail = thumb.URL
			break
		}
	}

	return verdict, nil
}

func (s *VideoSearchService) loadCache() map[string]searchCacheEntry {
	cache := make(map[string]searchCacheEntry)

	data, err := os.ReadFile(s.config.CacheFile)
	if err != nil {
		return cache
	}
	if err := json.Unmarshal(data, &cache); err != nil {
		logger.Log.Warn("search cache corrupted, starting fresh", zap.Error(err))
		return make(map[string]searchCacheEntry)
	}
	return cache
}

func (s *VideoSearchService) saveCache(cache map[string]searchCacheEntry) {
	data, err := json.MarshalIndent(cache, "", "  ")
	if err != nil {
		return
	}
	if dir := filepath.Dir(s.config.CacheFile); dir != "." {
		os.MkdirAll(dir, 0755)
	}
	if err := os.WriteFile(s.config.CacheFile, data, 0644); err != nil {
		logger.Log.Warn("failed to persist search cache", zap.Error(err))
	}
}
