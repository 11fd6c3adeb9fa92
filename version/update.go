package version

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	goversion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
)

const (
	// DefaultReleaseURL serves the latest released version as plain text
	DefaultReleaseURL = "https://www.privateinternetaccess.com/releases/ios-wireguard/latest/version"
	fetchPeriod       = 30 * time.Minute
	maxResponseSize   = 100
)

// Update tracks whether a newer release than the running one is available
type Update struct {
	releaseURL    string
	httpClient    *http.Client
	localVersion  *goversion.Version
	lastAvailable *goversion.Version
	versionsLock  sync.Mutex

	onUpdateListener func(version string)
	listenerLock     sync.Mutex
}

// NewUpdate creates an update checker comparing releases against the running version
func NewUpdate(releaseURL string, httpClient *http.Client) *Update {
	if releaseURL == "" {
		releaseURL = DefaultReleaseURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}

	return &Update{
		releaseURL:    releaseURL,
		httpClient:    httpClient,
		localVersion:  parseOrZero(current.label),
		lastAvailable: parseOrZero(""),
	}
}

func parseOrZero(raw string) *goversion.Version {
	v, err := goversion.NewVersion(raw)
	if err != nil {
		v, _ = goversion.NewVersion("0.0.0")
	}
	return v
}

// SetLocalVersion overrides the version the releases are compared against
func (u *Update) SetLocalVersion(raw string) {
	u.versionsLock.Lock()
	u.localVersion = parseOrZero(raw)
	u.versionsLock.Unlock()
	u.checkUpdate()
}

// SetOnUpdateListener registers the function called with the newer version when one is found
func (u *Update) SetOnUpdateListener(updateFn func(version string)) {
	u.listenerLock.Lock()
	defer u.listenerLock.Unlock()

	u.onUpdateListener = updateFn
	if u.IsUpdateAvailable() {
		u.onUpdateListener(u.LastAvailable())
	}
}

// Start fetches the latest version periodically until ctx is done
func (u *Update) Start(ctx context.Context) {
	u.fetchAndCheck(ctx)

	ticker := time.NewTicker(fetchPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			u.fetchAndCheck(ctx)
		}
	}
}

func (u *Update) fetchAndCheck(ctx context.Context) {
	changed, err := u.FetchLatest(ctx)
	if err != nil {
		log.Errorf("failed to fetch version info: %s", err)
		return
	}
	if changed {
		u.checkUpdate()
	}
}

// FetchLatest retrieves the latest released version. It reports whether the
// known latest version changed.
func (u *Update) FetchLatest(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.releaseURL, nil)
	if err != nil {
		return false, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", UserAgent())

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("get %s: %w", u.releaseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("invalid status code: %d", resp.StatusCode)
	}

	if resp.ContentLength > maxResponseSize {
		return false, fmt.Errorf("too large response: %d", resp.ContentLength)
	}

	content, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize+1))
	if err != nil {
		return false, fmt.Errorf("read content: %w", err)
	}
	if len(content) > maxResponseSize {
		return false, fmt.Errorf("too large response: %d", len(content))
	}

	lastAvailable, err := goversion.NewVersion(strings.TrimSpace(string(content)))
	if err != nil {
		return false, fmt.Errorf("parse the version string: %w", err)
	}

	u.versionsLock.Lock()
	defer u.versionsLock.Unlock()

	if u.lastAvailable.Equal(lastAvailable) {
		return false, nil
	}
	u.lastAvailable = lastAvailable

	return true, nil
}

// LastAvailable returns the latest known released version
func (u *Update) LastAvailable() string {
	u.versionsLock.Lock()
	defer u.versionsLock.Unlock()
	return u.lastAvailable.String()
}

// IsUpdateAvailable reports whether the latest release is newer than the local version
func (u *Update) IsUpdateAvailable() bool {
	u.versionsLock.Lock()
	defer u.versionsLock.Unlock()

	return u.lastAvailable.GreaterThan(u.localVersion)
}

func (u *Update) checkUpdate() {
	if !u.IsUpdateAvailable() {
		return
	}

	u.listenerLock.Lock()
	defer u.listenerLock.Unlock()
	if u.onUpdateListener == nil {
		return
	}

	u.onUpdateListener(u.LastAvailable())
}
