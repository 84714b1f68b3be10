package engine

import (
	"context"
	"fmt"

	"github.com/ccoveille/go-safecast"
	"github.com/charmbracelet/log"
	"github.com/jon4hz/yurei/database"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/sync/errgroup"
)

// Stats is the data backing the admin dashboard.
type Stats struct {
	TotalUsers      int                          `json:"totalUsers"`
	TotalVotes      int                          `json:"totalVotes"`
	VotesByCategory []database.CategoryVoteCount `json:"votesByCategory"`
	TopNominees     []database.NomineeVoteCount  `json:"topNominees"`
	HiddenGems      []database.Nominee           `json:"hiddenGems"`
	System          SystemStats                  `json:"system"`
}

// SystemStats reports host health next to the voting numbers.
type SystemStats struct {
	MemoryUsedPercent float64 `json:"memoryUsedPercent"`
	MemoryTotal       uint64  `json:"memoryTotal"`
	UptimeSeconds     uint64  `json:"uptimeSeconds"`
}

const statsLimit = 10

// GetStats gathers the admin statistics. The independent queries run
// concurrently.
func (e *Engine) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		count, err := e.db.CountUsers(gctx)
		if err != nil {
			return fmt.Errorf("failed to count users: %w", err)
		}
		stats.TotalUsers, err = safecast.ToInt(count)
		return err
	})

	g.Go(func() error {
		count, err := e.db.CountVotes(gctx)
		if err != nil {
			return fmt.Errorf("failed to count votes: %w", err)
		}
		stats.TotalVotes, err = safecast.ToInt(count)
		return err
	})

	g.Go(func() error {
		rows, err := e.db.VotesPerCategory(gctx)
		if err != nil {
			return fmt.Errorf("failed to count votes per category: %w", err)
		}
		stats.VotesByCategory = rows
		return nil
	})

	g.Go(func() error {
		top, err := e.db.TopNominees(gctx, statsLimit)
		if err != nil {
			return fmt.Errorf("failed to rank nominees: %w", err)
		}
		stats.TopNominees = top
		return nil
	})

	g.Go(func() error {
		gems, err := e.db.HiddenGemNominees(gctx, HiddenGemThreshold, statsLimit)
		if err != nil {
			return fmt.Errorf("failed to list hidden gems: %w", err)
		}
		stats.HiddenGems = gems
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	stats.System = e.systemStats(ctx)
	return &stats, nil
}

// systemStats is best-effort, a dashboard without host numbers is still a
// dashboard.
func (e *Engine) systemStats(ctx context.Context) SystemStats {
	var system SystemStats

	if vmem, err := mem.VirtualMemoryWithContext(ctx); err != nil {
		log.Debug("failed to read memory stats", "error", err)
	} else {
		system.MemoryUsedPercent = vmem.UsedPercent
		system.MemoryTotal = vmem.Total
	}

	if uptime, err := host.UptimeWithContext(ctx); err != nil {
		log.Debug("failed to read host uptime", "error", err)
	} else {
		system.UptimeSeconds = uptime
	}

	return system
}
