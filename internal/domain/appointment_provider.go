package domain

import "context"

//go:generate mockgen -source=appointment_provider.go -destination=appointment_provider_mock.go -package=domain

type AppointmentProvider interface {
	GetAppointment(ctx context.Context, id string) (*Appointment, error)
}
