package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkThroughputBreakthrough BookmarkType = "throughput_breakthrough"
	BookmarkStarvation             BookmarkType = "starvation"
	BookmarkBacklogGrowth          BookmarkType = "backlog_growth"
	BookmarkFullySorted            BookmarkType = "fully_sorted"
	BookmarkSteadySorting          BookmarkType = "steady_sorting"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in a sorting run.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	// State tracking
	recentBacklogMin   int  // smallest unsorted count since the last growth bookmark
	haveBacklogMin     bool
	starving           bool // a starvation episode is in progress
	fullySorted        bool // the pool is currently fully sorted
	steadyWindowsCount int  // consecutive windows with steady throughput
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for steady sorting detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		if b := bd.checkThroughputBreakthrough(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkBacklogGrowth(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
		if b := bd.checkSteadySorting(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	// Episode bookmarks need no history.
	if b := bd.checkStarvation(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkFullySorted(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)

	backlog := stats.Resources - stats.Sorted
	if !bd.haveBacklogMin || backlog < bd.recentBacklogMin {
		bd.recentBacklogMin = backlog
		bd.haveBacklogMin = true
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

func (bd *BookmarkDetector) checkThroughputBreakthrough(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.DeliveriesPerSec
	}
	avg := total / float64(len(history))
	if avg == 0 {
		return nil
	}

	if stats.DeliveriesPerSec > avg*2.0 && stats.Delivered >= 5 {
		return &Bookmark{
			Type:        BookmarkThroughputBreakthrough,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Throughput %.2f/s is %.1fx average (%.2f/s)", stats.DeliveriesPerSec, stats.DeliveriesPerSec/avg, avg),
		}
	}

	return nil
}

// checkStarvation fires once when at least half the swarm sits idle with
// unsorted resources left, and rearms when the swarm is busy again.
func (bd *BookmarkDetector) checkStarvation(stats WindowStats) *Bookmark {
	starving := stats.Ships > 0 &&
		stats.Idle*2 >= stats.Ships &&
		stats.Misses > 0 &&
		stats.Resources > stats.Sorted
	if !starving {
		bd.starving = false
		return nil
	}
	if bd.starving {
		return nil
	}
	bd.starving = true
	return &Bookmark{
		Type:        BookmarkStarvation,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("%d of %d ships idle with %d unsorted resources (%d misses)", stats.Idle, stats.Ships, stats.Resources-stats.Sorted, stats.Misses),
	}
}

func (bd *BookmarkDetector) checkBacklogGrowth(stats WindowStats) *Bookmark {
	if !bd.haveBacklogMin {
		return nil
	}
	backlog := stats.Resources - stats.Sorted
	base := max(bd.recentBacklogMin, 1)
	if backlog >= base*3/2 && backlog >= bd.recentBacklogMin+20 {
		oldMin := bd.recentBacklogMin
		bd.recentBacklogMin = backlog

		return &Bookmark{
			Type:        BookmarkBacklogGrowth,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Unsorted backlog grew from %d to %d", oldMin, backlog),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFullySorted(stats WindowStats) *Bookmark {
	sorted := stats.Resources >= 10 && stats.Sorted == stats.Resources
	if !sorted {
		bd.fullySorted = false
		return nil
	}
	if bd.fullySorted {
		return nil
	}
	bd.fullySorted = true
	return &Bookmark{
		Type:        BookmarkFullySorted,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All %d resources sorted at %.0fs", stats.Resources, stats.SimTimeSec),
	}
}

func (bd *BookmarkDetector) checkSteadySorting(stats WindowStats) *Bookmark {
	if stats.Delivered == 0 {
		bd.steadyWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}

	recent := history[len(history)-4:]
	var sum float64
	for _, h := range recent {
		sum += h.DeliveriesPerSec
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		d := h.DeliveriesPerSec - mean
		variance += d * d
	}
	variance /= 4

	if mean > 0 && variance/(mean*mean) < 0.04 { // CV^2 < 0.04 means CV < 0.2
		bd.steadyWindowsCount++
	} else {
		bd.steadyWindowsCount = 0
	}

	if bd.steadyWindowsCount == 5 {
		return &Bookmark{
			Type:        BookmarkSteadySorting,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Steady throughput of %.2f/s over 5+ windows", mean),
		}
	}

	return nil
}
