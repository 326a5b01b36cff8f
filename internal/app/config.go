package app

import (
	"errors"
	"fmt"
)

// Execution schedules understood by the pipeline.
const (
	ScheduleTape    = "tape"
	ScheduleMoments = "moments"
)

// AppConfig holds all the necessary configuration for an App instance to run.
type AppConfig struct {
	// ConfigPaths are .hcl files or directories searched recursively.
	ConfigPaths []string
	// OutputPath receives JSON lines. Empty or "-" means the App's writer.
	OutputPath string
	DOTDir     string

	PublishURL         string
	PublishNamespace   string
	PublishEvent       string
	InsecureSkipVerify bool

	Schedule    string
	LogFormat   string
	LogLevel    string
	WorkerCount int
	CacheSize   int
}

// Validate checks the fields that have no usable default.
func (c *AppConfig) Validate() error {
	if len(c.ConfigPaths) == 0 {
		return errors.New("at least one configuration path is required")
	}
	switch c.Schedule {
	case "", ScheduleTape, ScheduleMoments:
	default:
		return fmt.Errorf("unknown schedule %q, want %q or %q", c.Schedule, ScheduleTape, ScheduleMoments)
	}
	if c.WorkerCount < 0 {
		return fmt.Errorf("worker count must not be negative, got %d", c.WorkerCount)
	}
	return nil
}

func (c *AppConfig) workers() int {
	if c.WorkerCount <= 0 {
		return 1
	}
	return c.WorkerCount
}

func (c *AppConfig) cacheSize() int {
	if c.CacheSize <= 0 {
		return 16
	}
	return c.CacheSize
}
