package config

import "errors"

// ValidateForRun checks everything the server needs before it starts.
func ValidateForRun(cfg *Config) error {
	return errors.Join(
		cfg.Redis.Validate(),
		cfg.Database.Validate(),
		cfg.Reminder.Validate(),
		cfg.Push.Validate(),
	)
}
