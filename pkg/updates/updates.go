package updates

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/spycner/brix/pkg/state"
)

const (
	releaseURL     = "https://api.github.com/repos/Spycner/brix/releases/latest"
	checkInterval  = 24 * time.Hour
	requestTimeout = 5 * time.Second
)

// Checker surfaces newer brix releases without ever getting in the way: the
// network call runs detached from the invocation that triggered it and every
// failure is swallowed, so the worst case is a missing notice.
type Checker struct {
	URL    string
	Client *http.Client
	Store  *state.Store
	Now    func() time.Time
}

// NewChecker returns a checker against the GitHub releases API.
func NewChecker(store *state.Store) *Checker {
	return &Checker{
		URL:    releaseURL,
		Client: &http.Client{Timeout: requestTimeout},
		Store:  store,
		Now:    time.Now,
	}
}

// Notice returns a one-line upgrade hint when the cached latest release is
// newer than the running version, or "" when there is nothing to say. When
// the cache is older than a day it also kicks off a background refresh for
// the next invocation; the current one never waits on the network.
func (c *Checker) Notice(current string) string {
	st := c.Store.Load()

	if st.Stale(checkInterval, c.Now()) {
		go func() { _ = c.Refresh() }()
	}

	latest, err := semver.NewVersion(strings.TrimPrefix(st.LatestVersion, "v"))
	if err != nil {
		return ""
	}
	installed, err := semver.NewVersion(strings.TrimPrefix(current, "v"))
	if err != nil {
		// Dev builds report a non-release version; nothing to compare.
		return ""
	}
	if !latest.GreaterThan(installed) {
		return ""
	}

	return fmt.Sprintf("A new brix release is available: %s (installed: %s)", st.LatestVersion, current)
}

// Refresh queries the releases API once and rewrites the cache. The check
// timestamp advances even on failure so a dead network is probed at most
// once per interval.
func (c *Checker) Refresh() error {
	tag, err := c.fetchLatestTag()

	st := c.Store.Load()
	st.LastCheck = c.Now()
	if err == nil {
		st.LatestVersion = tag
	}
	if saveErr := c.Store.Save(st); saveErr != nil && err == nil {
		err = saveErr
	}
	return err
}

func (c *Checker) fetchLatestTag() (string, error) {
	resp, err := c.Client.Get(c.URL)
	if err != nil {
		return "", errors.Wrap(err, "failed to query releases")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Errorf("releases API returned %s", resp.Status)
	}

	var release struct {
		TagName string `json:"tag_name"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&release); err != nil {
		return "", errors.Wrap(err, "failed to decode release")
	}
	if release.TagName == "" {
		return "", errors.New("release has no tag name")
	}
	return release.TagName, nil
}
