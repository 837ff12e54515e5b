// SPDX-License-Identifier: MIT

package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// counterValue reads a counter from the default registry, matching the
// given labels. Returns 0 if the series does not exist yet.
func counterValue(t *testing.T, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
	metric:
		for _, m := range fam.GetMetric() {
			for k, want := range labels {
				found := false
				for _, lp := range m.GetLabel() {
					if lp.GetName() == k && lp.GetValue() == want {
						found = true
						break
					}
				}
				if !found {
					continue metric
				}
			}
			return m.GetCounter().GetValue()
		}
	}
	return 0
}

func TestValidateCountsFailures(t *testing.T) {
	before := counterValue(t, "rrish_config_validation_errors_total", nil)

	cfg := validConfig()
	cfg.Cache.Backend = "memcached"
	if err := Validate(cfg); err == nil {
		t.Fatal("Validate() should fail on unknown cache backend")
	}

	after := counterValue(t, "rrish_config_validation_errors_total", nil)
	if after != before+1 {
		t.Errorf("validation error counter = %v, want %v", after, before+1)
	}
}

func TestReloadRecordsResult(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeHolderConfig(t, path, "info")
	t.Setenv("RRISH_DATA", dir)

	loader := NewLoader(path, "test")
	initial, err := loader.Load()
	if err != nil {
		t.Fatalf("initial load failed: %v", err)
	}
	holder := NewConfigHolder(initial, loader, path)

	successBefore := counterValue(t, "rrish_config_reloads_total", map[string]string{"result": "success"})
	failureBefore := counterValue(t, "rrish_config_reloads_total", map[string]string{"result": "failure"})

	writeHolderConfig(t, path, "warn")
	if err := holder.Reload(context.Background()); err != nil {
		t.Fatalf("Reload() failed: %v", err)
	}

	if err := os.WriteFile(path, []byte("logLevel: warn\nstudioHours: 4\n"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := holder.Reload(context.Background()); err == nil {
		t.Fatal("Reload() should fail on unknown field")
	}

	success := counterValue(t, "rrish_config_reloads_total", map[string]string{"result": "success"})
	failure := counterValue(t, "rrish_config_reloads_total", map[string]string{"result": "failure"})
	if success != successBefore+1 {
		t.Errorf("success reload counter = %v, want %v", success, successBefore+1)
	}
	if failure != failureBefore+1 {
		t.Errorf("failure reload counter = %v, want %v", failure, failureBefore+1)
	}
}
