package ui

import (
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"

	"github.com/vanderheijden86/mdoutline/pkg/config"
	"github.com/vanderheijden86/mdoutline/pkg/debug"
)

// ViewState is the per-file view state restored on reopen: rendering mode
// and scroll position. The outline itself (active entry, ancestor marks) is
// deliberately not persisted; it is recomputed from scratch on attach.
type ViewState struct {
	Mode      string `json:"mode"`
	ScrollTop int    `json:"scroll_top"`
}

// viewStateFileVersion is the current schema version for view-state
// persistence.
const viewStateFileVersion = 1

type viewStateFile struct {
	Version int                  `json:"version"`
	Files   map[string]ViewState `json:"files"`
}

const viewStateFileName = "viewstate.json"

// ViewStatePath returns the path of the view-state cache, or "" when no
// state directory can be determined.
func ViewStatePath() string {
	dir := config.StateDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, viewStateFileName)
}

// LoadViewState returns the saved state for a document path. Missing or
// corrupted cache files silently yield nothing; this is a convenience, never
// a hard dependency.
func LoadViewState(docPath string) (ViewState, bool) {
	path := ViewStatePath()
	if path == "" {
		return ViewState{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ViewState{}, false
	}

	var f viewStateFile
	if err := json.Unmarshal(data, &f); err != nil {
		debug.Log("viewstate: invalid cache, ignoring: %v", err)
		return ViewState{}, false
	}
	st, ok := f.Files[absPath(docPath)]
	return st, ok
}

// SaveViewState records the state for a document path. Errors are logged and
// swallowed.
func SaveViewState(docPath string, st ViewState) {
	path := ViewStatePath()
	if path == "" {
		return
	}

	f := viewStateFile{Version: viewStateFileVersion, Files: map[string]ViewState{}}
	if data, err := os.ReadFile(path); err == nil {
		if err := json.Unmarshal(data, &f); err != nil || f.Files == nil {
			f = viewStateFile{Version: viewStateFileVersion, Files: map[string]ViewState{}}
		}
	}
	f.Files[absPath(docPath)] = st

	data, err := json.Marshal(f)
	if err != nil {
		debug.Log("viewstate: marshal failed: %v", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		debug.Log("viewstate: cannot create state dir: %v", err)
		return
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		debug.Log("viewstate: write failed: %v", err)
	}
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return p
	}
	return abs
}
