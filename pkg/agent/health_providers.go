// SPDX-License-Identifier: Apache-2.0

package agent

import (
	"context"
	"sync"
	"time"

	"github.com/zainaedelson/quartet/pkg/core"
)

// LLMHealthChecker reports inference backend reachability. Agents are
// built fresh per run, so backend health is the long-lived signal the
// health endpoint can ask about.
type LLMHealthChecker struct {
	name        string
	checkFunc   func(ctx context.Context) error
	lastCheck   time.Time
	lastResult  core.HealthResult
	minInterval time.Duration
	mu          sync.RWMutex
}

// NewLLMHealthChecker creates a health checker for an inference backend.
// A nil checkFunc reports healthy; usable for backends with no cheap probe.
func NewLLMHealthChecker(name string, checkFunc func(ctx context.Context) error) *LLMHealthChecker {
	return &LLMHealthChecker{
		name:        name,
		checkFunc:   checkFunc,
		minInterval: 30 * time.Second,
	}
}

// Check returns the health status of the inference backend. Probe results
// are cached for a short interval so health endpoints cannot hammer the
// backend.
func (h *LLMHealthChecker) Check(ctx context.Context) core.HealthResult {
	h.mu.RLock()
	if time.Since(h.lastCheck) < h.minInterval && !h.lastResult.LastCheck.IsZero() {
		result := h.lastResult
		h.mu.RUnlock()
		return result
	}
	h.mu.RUnlock()

	h.mu.Lock()
	defer h.mu.Unlock()

	// Double-check after acquiring write lock
	if time.Since(h.lastCheck) < h.minInterval && !h.lastResult.LastCheck.IsZero() {
		return h.lastResult
	}

	result := core.HealthResult{
		Component: "llm:" + h.name,
		LastCheck: time.Now(),
	}

	if h.checkFunc == nil {
		result.Status = core.HealthHealthy
		result.Message = "provider available (no health check configured)"
		h.lastResult = result
		h.lastCheck = time.Now()
		return result
	}

	checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := h.checkFunc(checkCtx); err != nil {
		result.Status = core.HealthUnhealthy
		result.Message = err.Error()
		result.Error = err
	} else {
		result.Status = core.HealthHealthy
		result.Message = "provider responsive"
	}

	h.lastResult = result
	h.lastCheck = time.Now()
	return result
}
