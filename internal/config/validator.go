package config

import (
	"strings"

	"github.com/go-playground/validator/v10"

	"pagewatch/internal/common"
	"pagewatch/internal/urlhandler"
)

// ValidateConfig performs validation on the GlobalConfig structure. Any
// error here is fatal at startup: the process must not begin scheduling
// with a bad configuration.
func ValidateConfig(cfg *GlobalConfig) error {
	validate := validator.New()

	_ = validate.RegisterValidation("targeturl", func(fl validator.FieldLevel) bool {
		return urlhandler.ValidateURLFormat(fl.Field().String()) == nil
	})

	_ = validate.RegisterValidation("loglevel", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "trace", "debug", "info", "warn", "error", "fatal", "panic":
			return true
		default:
			return false
		}
	})

	_ = validate.RegisterValidation("logformat", func(fl validator.FieldLevel) bool {
		switch strings.ToLower(fl.Field().String()) {
		case "", "console", "json":
			return true
		default:
			return false
		}
	})

	if err := validate.Struct(cfg); err != nil {
		return common.WrapError(err, "config validation failed")
	}

	return validateTargets(cfg.MonitorConfig.Targets)
}

// validateTargets enforces the constraints the validator tags cannot
// express: unique target names and strictly positive intervals. Target URLs
// are normalized in place so equivalent spellings fetch identically.
func validateTargets(targets []TargetConfig) error {
	seen := make(map[string]struct{}, len(targets))
	for i := range targets {
		target := &targets[i]

		if _, dup := seen[target.Name]; dup {
			return common.NewConfigurationError("monitor_config", "targets", "duplicate target name '"+target.Name+"'")
		}
		seen[target.Name] = struct{}{}

		if target.Interval.Std() <= 0 {
			return common.NewConfigurationError("monitor_config", "targets", "target '"+target.Name+"' must have a positive interval")
		}

		normalized, err := urlhandler.NormalizeURL(target.URL)
		if err != nil {
			return common.NewConfigurationError("monitor_config", "targets", "target '"+target.Name+"' has an invalid URL: "+err.Error())
		}
		target.URL = normalized
	}
	return nil
}
