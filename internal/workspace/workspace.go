package workspace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// dirPrefix marks job workspaces under the configured root so the sweeper
// never touches unrelated directories.
const dirPrefix = "ytdl_job_"

// Manager allocates isolated per-job working directories under a root and
// guarantees their removal.
type Manager struct {
	root   string
	logger *zap.Logger
}

func NewManager(root string, logger *zap.Logger) *Manager {
	return &Manager{
		root:   root,
		logger: logger.With(zap.String("component", "workspace")),
	}
}

// Open creates a fresh, empty, uniquely-named directory. No two open
// workspaces collide: the name carries a random UUID suffix.
func (m *Manager) Open() (*Workspace, error) {
	path := filepath.Join(m.root, dirPrefix+uuid.NewString())
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	m.logger.Debug("Workspace opened", zap.String("path", path))
	return &Workspace{path: path, logger: m.logger}, nil
}

// Workspace is an isolated, job-scoped directory holding all of that job's
// transient files. The owning job must Close it on every exit path.
type Workspace struct {
	path   string
	logger *zap.Logger
}

func (w *Workspace) Path() string {
	return w.path
}

// Close recursively deletes the directory. A directory that is already
// missing or partially populated is not an error.
func (w *Workspace) Close() {
	if err := os.RemoveAll(w.path); err != nil {
		w.logger.Error("Error removing workspace",
			zap.String("path", w.path),
			zap.Error(err))
		return
	}
	w.logger.Debug("Workspace removed", zap.String("path", w.path))
}
