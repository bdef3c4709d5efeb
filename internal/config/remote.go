package config

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"wakeplay/pkg/logging"

	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
	"gopkg.in/yaml.v3"
)

// maxSnapshotBytes caps the size of a remote snapshot document.
const maxSnapshotBytes = 4 << 20

// RemoteSource fetches the configured tier from an HTTP endpoint serving a
// YAML document:
//
//	version: 12
//	targets:
//	  - id: netflix
//	    templates:
//	      - uri: "https://www.netflix.com/watch/{{ .id }}"
//
// Fetches are rate limited and concurrent callers share one request. When a
// fetch fails or is throttled, the last good snapshot is returned.
type RemoteSource struct {
	url        string
	httpClient *http.Client
	limiter    *rate.Limiter

	group singleflight.Group

	mu     sync.RWMutex
	cached *Snapshot
}

// NewRemoteSource creates a RemoteSource for cfg.URL.
func NewRemoteSource(cfg RemoteConfig) *RemoteSource {
	minInterval := cfg.MinInterval
	if minInterval <= 0 {
		minInterval = DefaultRemoteMinInterval
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultRemoteTimeout
	}
	return &RemoteSource{
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(rate.Every(minInterval), 1),
	}
}

// Snapshot returns a fresh snapshot when the rate limit allows a fetch,
// otherwise the cached one.
func (rs *RemoteSource) Snapshot(ctx context.Context) (*Snapshot, error) {
	rs.mu.RLock()
	cached := rs.cached
	rs.mu.RUnlock()

	// Without a cached copy there is nothing to fall back to, so fetch even
	// when throttled.
	allowed := rs.limiter.Allow()
	if cached != nil && !allowed {
		return cached, nil
	}

	result, err, _ := rs.group.Do(rs.url, func() (interface{}, error) {
		return rs.fetch(ctx)
	})
	if err != nil {
		if cached != nil {
			logging.Warn("ConfigSource", "Remote fetch from %s failed, serving version %d from cache: %v", rs.url, cached.Version, err)
			return cached, nil
		}
		return nil, err
	}

	snap := result.(*Snapshot)
	rs.mu.Lock()
	rs.cached = snap
	rs.mu.Unlock()
	return snap, nil
}

func (rs *RemoteSource) fetch(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rs.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/yaml")

	resp, err := rs.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rs.url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", rs.url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSnapshotBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", rs.url, err)
	}

	return parseSnapshotDocument(body, rs.url)
}

// parseSnapshotDocument decodes a remote document. Invalid targets are
// dropped with a warning rather than failing the whole snapshot.
func parseSnapshotDocument(data []byte, origin string) (*Snapshot, error) {
	var doc snapshotDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot document from %s: %w", origin, err)
	}

	targets := make(map[string]TargetConfig, len(doc.Targets))
	for _, tc := range doc.Targets {
		if err := ValidateTargetConfig(tc); err != nil {
			logging.Warn("ConfigSource", "Dropping remote target %q: %v", tc.ID, err)
			continue
		}
		targets[tc.ID] = tc
	}

	logging.Info("ConfigSource", "Fetched remote snapshot version %d with %d targets", doc.Version, len(targets))
	return &Snapshot{
		Version:  doc.Version,
		Source:   "remote",
		LoadedAt: time.Now(),
		Targets:  targets,
	}, nil
}
