/*
Package jobqueue configuration. Tunable parameters for the River queue that
executes saved prompt runs.

  - Increase MaxWorkers for more concurrent inference calls; each worker holds
    a pool connection while it updates run state.
  - MaxAttempts bounds River-level retries. Transient provider failures are
    already retried inside a single attempt by the enhancer.
  - JobTimeout should exceed the inference timeout plus backoff.
*/
package jobqueue

import (
	"fmt"
	"strings"
	"time"

	"github.com/riverqueue/river"
)

// QueueConfig holds all configurable parameters for the job queue
type QueueConfig struct {
	MaxWorkers  int           // concurrent workers (default: 5)
	MaxAttempts int           // attempts per job before it is discarded (default: 3)
	JobTimeout  time.Duration // maximum time a single run may take (default: 2 minutes)
}

// DefaultQueueConfig returns the default configuration
func DefaultQueueConfig() *QueueConfig {
	return &QueueConfig{
		MaxWorkers:  5,
		MaxAttempts: 3,
		JobTimeout:  2 * time.Minute,
	}
}

// ProductionQueueConfig returns a configuration tuned for production throughput
func ProductionQueueConfig() *QueueConfig {
	config := DefaultQueueConfig()
	config.MaxWorkers = 20
	config.JobTimeout = 5 * time.Minute
	return config
}

// DevelopmentQueueConfig returns a configuration for local work
func DevelopmentQueueConfig() *QueueConfig {
	config := DefaultQueueConfig()
	config.MaxWorkers = 2
	config.MaxAttempts = 1
	return config
}

// PresetQueueConfig returns the named preset: "default" (or empty),
// "production" or "development".
func PresetQueueConfig(name string) (*QueueConfig, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "default":
		return DefaultQueueConfig(), nil
	case "production":
		return ProductionQueueConfig(), nil
	case "development":
		return DevelopmentQueueConfig(), nil
	}
	return nil, fmt.Errorf("unknown queue preset %q", name)
}

// Override replaces preset values with any positive explicit setting.
func (c *QueueConfig) Override(maxWorkers, maxAttempts int, jobTimeout time.Duration) *QueueConfig {
	out := *c.withDefaults()
	if maxWorkers > 0 {
		out.MaxWorkers = maxWorkers
	}
	if maxAttempts > 0 {
		out.MaxAttempts = maxAttempts
	}
	if jobTimeout > 0 {
		out.JobTimeout = jobTimeout
	}
	return &out
}

// withDefaults fills zero values from DefaultQueueConfig.
func (c *QueueConfig) withDefaults() *QueueConfig {
	def := DefaultQueueConfig()
	if c == nil {
		return def
	}
	out := *c
	if out.MaxWorkers <= 0 {
		out.MaxWorkers = def.MaxWorkers
	}
	if out.MaxAttempts <= 0 {
		out.MaxAttempts = def.MaxAttempts
	}
	if out.JobTimeout <= 0 {
		out.JobTimeout = def.JobTimeout
	}
	return &out
}

// RiverQueueConfig converts our config to River's queue configuration format
func (c *QueueConfig) RiverQueueConfig() map[string]river.QueueConfig {
	return map[string]river.QueueConfig{
		river.QueueDefault: {
			MaxWorkers: c.MaxWorkers,
		},
	}
}
