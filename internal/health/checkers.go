// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ContentChecker reports whether a content snapshot has been loaded.
type ContentChecker struct {
	// LoadedAt returns the load time of the current snapshot and the
	// number of records in it. A zero time means nothing is loaded.
	LoadedAt func() (time.Time, int)
}

// NewContentChecker creates a checker over a snapshot probe.
func NewContentChecker(loadedAt func() (time.Time, int)) *ContentChecker {
	return &ContentChecker{LoadedAt: loadedAt}
}

func (c *ContentChecker) Name() string { return "content" }

func (c *ContentChecker) Check(_ context.Context) CheckResult {
	at, records := c.LoadedAt()
	if at.IsZero() {
		return CheckResult{
			Status: StatusUnhealthy,
			Error:  "no content snapshot loaded",
		}
	}
	if records == 0 {
		return CheckResult{
			Status:  StatusDegraded,
			Message: "snapshot loaded but contains no records",
		}
	}
	return CheckResult{
		Status:  StatusHealthy,
		Message: fmt.Sprintf("%d records, loaded %s", records, at.UTC().Format(time.RFC3339)),
	}
}

// WritableDirChecker verifies a directory exists and accepts writes.
type WritableDirChecker struct {
	name string
	path string
}

// NewWritableDirChecker creates a checker for a writable directory.
func NewWritableDirChecker(name, path string) *WritableDirChecker {
	return &WritableDirChecker{name: name, path: path}
}

func (c *WritableDirChecker) Name() string { return c.name }

func (c *WritableDirChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{
			Status:  StatusHealthy,
			Message: "not configured (optional)",
		}
	}

	info, err := os.Stat(c.path)
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected directory, got file"}
	}

	probe, err := os.CreateTemp(c.path, ".health-*")
	if err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: "directory not writable"}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(filepath.Clean(name))

	return CheckResult{Status: StatusHealthy, Message: "directory writable"}
}

// PingChecker wraps a ping function, typically a store health probe.
type PingChecker struct {
	name string
	ping func(ctx context.Context) error
}

// NewPingChecker creates a checker from a ping function.
func NewPingChecker(name string, ping func(ctx context.Context) error) *PingChecker {
	return &PingChecker{name: name, ping: ping}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if c.ping == nil {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}

	// Keep probe latency bounded for readiness checks.
	checkCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.ping(checkCtx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: "reachable"}
}
