package clinic

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// SendDueReminders notifies patients of pending or confirmed appointments
// starting within the reminder window and marks them reminderSent. It is
// meant to be called periodically by the reminder worker; an appointment is
// reminded at most once.
func (s *Service) SendDueReminders(ctx context.Context) (int, error) {
	now := s.now()
	horizon := now.Add(s.cfg.ReminderWindow)

	appts, err := s.repos.Appointments.Find(ctx, func(a Appointment) bool {
		return !a.ReminderSent && (a.Status == StatusPending || a.Status == StatusConfirmed)
	})
	if err != nil {
		return 0, fmt.Errorf("find reminder candidates: %w", err)
	}

	sent := 0
	for _, a := range appts {
		start, err := StartsAt(a, s.cfg.Location)
		if err != nil {
			s.log.Warn("skipping appointment with bad slot",
				slog.String("appointment_id", a.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		if start.Before(now) || start.After(horizon) {
			continue
		}

		claimed, err := s.claimReminder(ctx, a.ID, now)
		if err != nil {
			return sent, err
		}
		if !claimed {
			continue
		}

		if err := s.notifier.AppointmentReminder(ctx, a); err != nil {
			s.log.Error("reminder failed",
				slog.String("appointment_id", a.ID),
				slog.String("error", err.Error()),
			)
			if err := s.releaseReminder(ctx, a.ID); err != nil {
				return sent, err
			}
			continue
		}
		sent++
	}
	return sent, nil
}

// claimReminder sets reminderSent on an appointment that is still due one,
// so a concurrent run or a status change after the candidate scan cannot
// lead to a duplicate or stale reminder.
func (s *Service) claimReminder(ctx context.Context, id string, now time.Time) (bool, error) {
	claimed := false
	err := s.repos.Tx.Mutate(ctx, func(st *State) error {
		for i := range st.Appointments {
			a := &st.Appointments[i]
			if a.ID != id {
				continue
			}
			if a.ReminderSent || (a.Status != StatusPending && a.Status != StatusConfirmed) {
				return nil
			}
			a.ReminderSent = true
			a.UpdatedAt = now.UTC()
			s.appendEvent(st, EventAppointmentReminder, id, "", nil)
			claimed = true
			return nil
		}
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("claim reminder: %w", err)
	}
	return claimed, nil
}

// releaseReminder undoes a claim whose delivery failed.
func (s *Service) releaseReminder(ctx context.Context, id string) error {
	err := s.repos.Tx.Mutate(ctx, func(st *State) error {
		for i := range st.Appointments {
			if st.Appointments[i].ID == id {
				st.Appointments[i].ReminderSent = false
				dropReminderEvent(st, id)
				return nil
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("release reminder: %w", err)
	}
	return nil
}

func dropReminderEvent(st *State, id string) {
	for i := len(st.Events) - 1; i >= 0; i-- {
		if st.Events[i].AppointmentID == id && st.Events[i].Type == EventAppointmentReminder {
			st.Events = append(st.Events[:i], st.Events[i+1:]...)
			return
		}
	}
}
