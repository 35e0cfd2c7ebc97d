package repository

import "errors"

var (
	ErrRedisConnection     = errors.New("redis connection error")
	ErrInvalidSettingsData = errors.New("invalid settings data")
)
