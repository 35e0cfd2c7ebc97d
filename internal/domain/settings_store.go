package domain

import "context"

//go:generate mockgen -source=settings_store.go -destination=settings_store_mock.go -package=domain

// SettingsStore persists whole Settings documents per recipient. There is no
// partial-field API.
type SettingsStore interface {
	Get(ctx context.Context, recipient string) (Settings, error)
	Set(ctx context.Context, recipient string, settings Settings) error
}
