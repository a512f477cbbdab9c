package state

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/consts"
	"github.com/spycner/brix/pkg/utils"
)

// State is the small cross-invocation record brix keeps per user: the last
// project directory it operated on and the result of the most recent release
// check. It is advisory; losing or corrupting it only costs a re-resolution
// or a re-check.
type State struct {
	LastProjectPath string    `json:"last_project_path,omitempty"`
	LastCheck       time.Time `json:"last_check,omitempty"`
	LatestVersion   string    `json:"latest_version,omitempty"`
}

// Stale reports whether the release check is older than window at the given
// instant. A zero LastCheck is always stale.
func (s State) Stale(window time.Duration, now time.Time) bool {
	return now.Sub(s.LastCheck) >= window
}

// Store reads and writes the state file.
type Store struct {
	Path string
}

// NewStore places the state file under the user cache directory
// (~/.cache/brix/state.json on Linux).
func NewStore() (*Store, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return nil, errors.Wrap(err, "failed to locate user cache directory")
	}
	return &Store{Path: filepath.Join(cacheDir, "brix", "state.json")}, nil
}

// Load reads the state file. A missing or unreadable file yields a zero
// state rather than an error: the record is advisory and a fresh start is
// always acceptable.
func (s *Store) Load() State {
	var st State

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return st
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return State{}
	}
	return st
}

// Save writes the state file as a whole-file atomic replace.
func (s *Store) Save(st State) error {
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode state")
	}
	return utils.WriteFileAtomic(s.Path, append(data, '\n'), consts.ModeFile)
}

// Resolve picks the first non-empty value in precedence order: an explicit
// argument beats the environment, which beats the cached value, which beats
// the fallback.
func Resolve(explicit, env, cached, fallback string) string {
	for _, v := range []string{explicit, env, cached} {
		if v != "" {
			return v
		}
	}
	return fallback
}
