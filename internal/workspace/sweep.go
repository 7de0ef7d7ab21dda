package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Sweep removes job directories under the root older than maxAge. With
// maxAge zero every job directory goes, which is only safe before any job
// has started (crash recovery at boot).
func (m *Manager) Sweep(maxAge time.Duration) int {
	entries, err := os.ReadDir(m.root)
	if err != nil {
		m.logger.Error("Error reading workspace root", zap.Error(err))
		return 0
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if !entry.IsDir() || !strings.HasPrefix(entry.Name(), dirPrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if maxAge > 0 && info.ModTime().After(cutoff) {
			continue
		}

		path := filepath.Join(m.root, entry.Name())
		if err := os.RemoveAll(path); err != nil {
			m.logger.Error("Error removing stale workspace",
				zap.String("path", path),
				zap.Error(err))
			continue
		}
		m.logger.Info("Removed orphaned workspace", zap.String("path", path))
		removed++
	}

	return removed
}

// Janitor periodically sweeps stale workspaces left behind by crashed jobs.
type Janitor struct {
	manager  *Manager
	maxAge   time.Duration
	interval time.Duration
	logger   *zap.Logger
}

func NewJanitor(manager *Manager, maxAge time.Duration, logger *zap.Logger) *Janitor {
	return &Janitor{
		manager:  manager,
		maxAge:   maxAge,
		interval: 15 * time.Minute,
		logger:   logger.With(zap.String("component", "workspace_janitor")),
	}
}

func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("Workspace janitor started",
		zap.Duration("max_age", j.maxAge),
		zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.logger.Info("Workspace janitor stopping")
			return
		case <-ticker.C:
			if removed := j.manager.Sweep(j.maxAge); removed > 0 {
				j.logger.Info("Sweep finished", zap.Int("removed", removed))
			}
		}
	}
}
