package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
	"github.com/KasumiMercury/primind-appointment-reminder/internal/testutil"
)

func TestSettingsRepositoryGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSettingsRepository(client)

	tests := []struct {
		name      string
		recipient string
		setup     func(t *testing.T)
		expected  domain.Settings
		wantErr   error
	}{
		{
			name:      "missing settings",
			recipient: "AAA0001",
			setup:     func(t *testing.T) {},
			wantErr:   domain.ErrSettingsNotFound,
		},
		{
			name:      "stored record",
			recipient: "AAA0002",
			setup: func(t *testing.T) {
				data := `{"appointment_reminders":true,"reminder_time_24h":false,"reminder_time_1h":true,"reminder_time_15m":true,"daily_tips":false,"daily_tip_time":"07:45","timezone":"Pacific/Auckland"}`
				if err := client.Set(ctx, "reminder:settings:AAA0002", data, 0).Err(); err != nil {
					t.Fatalf("failed to set up test data: %v", err)
				}
			},
			expected: domain.Settings{
				AppointmentReminders: true,
				ReminderTime1h:       true,
				ReminderTime15m:      true,
				DailyTipTime:         "07:45",
				Timezone:             "Pacific/Auckland",
			},
		},
		{
			name:      "corrupt record",
			recipient: "AAA0003",
			setup: func(t *testing.T) {
				if err := client.Set(ctx, "reminder:settings:AAA0003", "{not json", 0).Err(); err != nil {
					t.Fatalf("failed to set up test data: %v", err)
				}
			},
			wantErr: ErrInvalidSettingsData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setup(t)

			settings, err := repo.Get(ctx, tt.recipient)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected error %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if settings != tt.expected {
				t.Errorf("expected %+v, got %+v", tt.expected, settings)
			}
		})
	}
}

func TestSettingsRepositorySetLastWriteWins(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	defer cleanup()

	repo := NewSettingsRepository(client)

	first := domain.DefaultSettings()
	second := domain.DefaultSettings()
	second.ReminderTime15m = true
	second.DailyTipTime = "18:30"

	if err := repo.Set(ctx, "BBB0001", first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := repo.Set(ctx, "BBB0001", second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := repo.Get(ctx, "BBB0001")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != second {
		t.Errorf("expected %+v, got %+v", second, got)
	}

	ttl, err := client.TTL(ctx, "reminder:settings:BBB0001").Result()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ttl >= 0 {
		t.Errorf("expected no expiry, got %v", ttl)
	}
}

func TestSettingsRepositoryConnectionError(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	client, cleanup := testutil.SetupRedisContainer(ctx, t)
	repo := NewSettingsRepository(client)
	cleanup()

	if _, err := repo.Get(ctx, "CCC0001"); !errors.Is(err, ErrRedisConnection) {
		t.Errorf("expected ErrRedisConnection, got %v", err)
	}
	if err := repo.Set(ctx, "CCC0001", domain.DefaultSettings()); !errors.Is(err, ErrRedisConnection) {
		t.Errorf("expected ErrRedisConnection, got %v", err)
	}
}
