package monitor

import (
	"time"

	"pagewatch/internal/config"
)

// Target is a single monitored resource with its check interval.
type Target struct {
	Name     string
	URL      string
	Interval time.Duration
}

// TargetsFromConfig converts validated target configs into monitor targets.
func TargetsFromConfig(cfgs []config.TargetConfig) []Target {
	targets := make([]Target, 0, len(cfgs))
	for _, tc := range cfgs {
		targets = append(targets, Target{
			Name:     tc.Name,
			URL:      tc.URL,
			Interval: tc.Interval.Std(),
		})
	}
	return targets
}
