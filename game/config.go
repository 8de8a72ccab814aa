package game

import (
	"github.com/pthm-cable/swarmsort/config"
	"github.com/pthm-cable/swarmsort/telemetry"
)

// Options configures a new game.
type Options struct {
	Config         *config.Config // nil uses the global config.Cfg()
	Seed           int64          // 0 picks a time-based seed
	LogStats       bool           // log window stats and bookmarks via slog
	StatsWindowSec float64        // 0 uses telemetry.stats_window
	OutputDir      string         // CSV output directory; empty disables output
	StepsPerUpdate int            // simulation ticks per Update call

	// StatsCallback, if set, receives every flushed stats window.
	StatsCallback func(telemetry.WindowStats)
}
