package appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/KasumiMercury/primind-appointment-reminder/internal/domain"
)

// appointmentRow mirrors the appointment table owned by the booking API.
// This service only reads it.
type appointmentRow struct {
	ID          string     `gorm:"primaryKey;type:text"`
	NHI         string     `gorm:"column:nhi;type:varchar(7);not null;index"`
	StartAt     time.Time  `gorm:"not null"`
	EndAt       *time.Time `gorm:"column:end_at"`
	Timezone    string     `gorm:"type:text"`
	Purpose     string     `gorm:"type:text"`
	ClinicName  string     `gorm:"type:text;not null"`
	PatientInfo string     `gorm:"type:text"`
	DeletedAt   *time.Time `gorm:"index"`
}

func (appointmentRow) TableName() string {
	return "appointment"
}

func (r appointmentRow) toDomain() *domain.Appointment {
	appt := &domain.Appointment{
		ID:          r.ID,
		NHI:         r.NHI,
		StartAt:     r.StartAt,
		Timezone:    r.Timezone,
		Purpose:     domain.Purpose(r.Purpose),
		ClinicName:  r.ClinicName,
		PatientInfo: r.PatientInfo,
	}
	if r.EndAt != nil {
		appt.EndAt = *r.EndAt
	}
	return appt
}

type Config struct {
	DSN      string
	LogLevel logger.LogLevel
}

type Repository struct {
	db *gorm.DB
}

func Open(cfg Config) (*Repository, error) {
	level := cfg.LogLevel
	if level == 0 {
		level = logger.Warn
	}

	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(level),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to appointment database: %w", err)
	}

	return NewRepository(db), nil
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) GetAppointment(ctx context.Context, id string) (*domain.Appointment, error) {
	var row appointmentRow
	err := r.db.WithContext(ctx).
		Where("id = ? AND deleted_at IS NULL", id).
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrAppointmentNotFound, id)
		}
		return nil, fmt.Errorf("failed to load appointment %s: %w", id, err)
	}

	return row.toDomain(), nil
}

// Ping checks the database connection for readiness probes.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
