package search

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"tunebot/pkg/logger"
	"tunebot/pkg/player"
)

const watchURL = "https://www.youtube.com/watch?v="

// YouTube searches videos through the YouTube Data API.
type YouTube struct {
	service *youtube.Service
	log     *logger.Logger
}

// NewYouTube creates a searcher authenticated with an API key. Extra client
// options are appended after the key.
func NewYouTube(ctx context.Context, log *logger.Logger, apiKey string, opts ...option.ClientOption) (*YouTube, error) {
	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	service, err := youtube.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating youtube service: %w", err)
	}
	return &YouTube{service: service, log: log.Named("youtube")}, nil
}

// Search implements Searcher. Durations come from a second videos.list call
// since search results carry none.
func (y *YouTube) Search(ctx context.Context, query string, limit int) ([]player.Track, error) {
	query, err := normalizeQuery(query)
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 10
	}

	resp, err := y.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube search: %w", err)
	}

	ids := make([]string, 0, len(resp.Items))
	tracks := make([]player.Track, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id == nil || item.Id.VideoId == "" || item.Snippet == nil {
			continue
		}
		ids = append(ids, item.Id.VideoId)
		tracks = append(tracks, player.Track{
			Title:      item.Snippet.Title,
			URI:        watchURL + item.Id.VideoId,
			Author:     item.Snippet.ChannelTitle,
			ArtworkURL: thumbnailURL(item.Snippet.Thumbnails),
		})
	}
	if len(tracks) == 0 {
		return nil, ErrNoResults
	}

	durations, err := y.durations(ctx, ids)
	if err != nil {
		y.log.Warn("Failed to fetch video durations", zap.Error(err))
		return tracks, nil
	}
	for i, id := range ids {
		tracks[i].Duration = durations[id]
	}

	y.log.Debug("Search completed", zap.String("query", query), zap.Int("results", len(tracks)))
	return tracks, nil
}

func (y *YouTube) durations(ctx context.Context, ids []string) (map[string]time.Duration, error) {
	resp, err := y.service.Videos.List([]string{"contentDetails"}).
		Id(ids...).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("youtube videos: %w", err)
	}

	out := make(map[string]time.Duration, len(resp.Items))
	for _, v := range resp.Items {
		if v.ContentDetails == nil {
			continue
		}
		d, err := ParseISODuration(v.ContentDetails.Duration)
		if err != nil {
			y.log.Debug("Unparseable video duration",
				zap.String("video_id", v.Id),
				zap.String("duration", v.ContentDetails.Duration))
			continue
		}
		out[v.Id] = d
	}
	return out, nil
}

func thumbnailURL(t *youtube.ThumbnailDetails) string {
	if t == nil {
		return ""
	}
	for _, th := range []*youtube.Thumbnail{t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return th.Url
		}
	}
	return ""
}

var isoDuration = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+)S)?)?$`)

// ParseISODuration parses the ISO 8601 durations YouTube reports, such as
// PT4M13S or P1DT2H.
func ParseISODuration(s string) (time.Duration, error) {
	m := isoDuration.FindStringSubmatch(s)
	if m == nil || s == "P" || s == "PT" {
		return 0, fmt.Errorf("invalid ISO 8601 duration %q", s)
	}
	units := []time.Duration{24 * time.Hour, time.Hour, time.Minute, time.Second}
	var total time.Duration
	for i, unit := range units {
		if m[i+1] == "" {
			continue
		}
		n, err := strconv.ParseInt(m[i+1], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid ISO 8601 duration %q: %w", s, err)
		}
		total += time.Duration(n) * unit
	}
	return total, nil
}
