package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

const settingsKeyPrefix = "reminder:settings:"

type settingsRecord struct {
	AppointmentReminders bool      `json:"appointment_reminders"`
	ReminderTime24h      bool      `json:"reminder_time_24h"`
	ReminderTime1h       bool      `json:"reminder_time_1h"`
	ReminderTime15m      bool      `json:"reminder_time_15m"`
	DailyTips            bool      `json:"daily_tips"`
	DailyTipTime         string    `json:"daily_tip_time"`
	Timezone             string    `json:"timezone"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type settingsRepository struct {
	client *redis.Client
}

func NewSettingsRepository(client *redis.Client) domain.SettingsStore {
	return &settingsRepository{
		client: client,
	}
}

func (r *settingsRepository) Get(ctx context.Context, recipient string) (domain.Settings, error) {
	data, err := r.client.Get(ctx, settingsKeyPrefix+recipient).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Settings{}, domain.ErrSettingsNotFound
		}
		return domain.Settings{}, fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}

	var record settingsRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return domain.Settings{}, ErrInvalidSettingsData
	}

	return domain.Settings{
		AppointmentReminders: record.AppointmentReminders,
		ReminderTime24h:      record.ReminderTime24h,
		ReminderTime1h:       record.ReminderTime1h,
		ReminderTime15m:      record.ReminderTime15m,
		DailyTips:            record.DailyTips,
		DailyTipTime:         record.DailyTipTime,
		Timezone:             record.Timezone,
	}, nil
}

// Set replaces the whole settings document; the last write wins.
func (r *settingsRepository) Set(ctx context.Context, recipient string, settings domain.Settings) error {
	record := settingsRecord{
		AppointmentReminders: settings.AppointmentReminders,
		ReminderTime24h:      settings.ReminderTime24h,
		ReminderTime1h:       settings.ReminderTime1h,
		ReminderTime15m:      settings.ReminderTime15m,
		DailyTips:            settings.DailyTips,
		DailyTipTime:         settings.DailyTipTime,
		Timezone:             settings.Timezone,
		UpdatedAt:            time.Now().UTC(),
	}

	data, err := json.Marshal(record)
	if err != nil {
		return ErrInvalidSettingsData
	}

	if err := r.client.Set(ctx, settingsKeyPrefix+recipient, data, 0).Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrRedisConnection, err)
	}
	return nil
}
