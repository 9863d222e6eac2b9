package clinic

import (
	"context"
	"log/slog"
)

// Notifier delivers patient-facing messages about an appointment.
type Notifier interface {
	AppointmentBooked(ctx context.Context, a Appointment) error
	AppointmentReminder(ctx context.Context, a Appointment) error
}

// LogNotifier writes notifications to the log instead of sending them.
type LogNotifier struct {
	Log *slog.Logger
}

func (n LogNotifier) logger() *slog.Logger {
	if n.Log == nil {
		return slog.Default()
	}
	return n.Log
}

func (n LogNotifier) AppointmentBooked(ctx context.Context, a Appointment) error {
	n.logger().InfoContext(ctx, "notify: appointment booked",
		slog.String("appointment_id", a.ID),
		slog.String("email", a.PatientEmail),
		slog.String("service", a.ServiceName),
		slog.String("date", a.Date),
		slog.String("time", a.Time),
	)
	return nil
}

func (n LogNotifier) AppointmentReminder(ctx context.Context, a Appointment) error {
	n.logger().InfoContext(ctx, "notify: appointment reminder",
		slog.String("appointment_id", a.ID),
		slog.String("email", a.PatientEmail),
		slog.String("phone", a.PatientPhone),
		slog.String("date", a.Date),
		slog.String("time", a.Time),
	)
	return nil
}
