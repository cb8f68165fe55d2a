package search

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"tunebot/pkg/config"
	"tunebot/pkg/logger"
)

// Module provides the configured Searcher for fx.
var Module = fx.Module("search",
	fx.Provide(ProvideSearcher),
)

// ProvideSearcher builds the searcher named by search.provider.
func ProvideSearcher(cfg *config.Config, log *logger.Logger) (Searcher, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Search.Provider)) {
	case "static":
		catalog, err := LoadCatalog(cfg.Search.CatalogPath)
		if err != nil {
			return nil, err
		}
		log.Info("Using static track catalog",
			zap.String("path", cfg.Search.CatalogPath),
			zap.Int("tracks", catalog.Len()))
		return catalog, nil
	case "youtube":
		yt, err := NewYouTube(context.Background(), log, cfg.Search.YouTubeAPIKey)
		if err != nil {
			return nil, err
		}
		log.Info("Using YouTube search")
		return yt, nil
	default:
		return nil, fmt.Errorf("unknown search provider %q", cfg.Search.Provider)
	}
}
