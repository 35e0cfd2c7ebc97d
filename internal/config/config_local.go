//go:build !gcloud

package config

// Validate checks nothing locally: the asynq queue lives on the configured Redis.
func (c *TaskQueueConfig) Validate() error {
	return nil
}
