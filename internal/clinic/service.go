package clinic

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/store"
)

var (
	ErrSlotAlreadyBooked       = errors.New("time slot is already booked")
	ErrSlotUnavailable         = errors.New("time slot is not offered on that date")
	ErrInvalidDate             = errors.New("date must be formatted YYYY-MM-DD")
	ErrServiceUnavailable      = errors.New("service is not available")
	ErrInvalidStatus           = errors.New("invalid appointment status")
	ErrInvalidStatusTransition = errors.New("invalid status transition")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
)

const defaultDuration = 30

type Config struct {
	Location       *time.Location // clinic timezone for "today" and slot times
	ReminderWindow time.Duration
	MaxEvents      int // audit entries kept in the document
}

type Service struct {
	repos    Repositories
	notifier Notifier
	cfg      Config
	log      *slog.Logger
	now      func() time.Time
}

func NewService(repos Repositories, notifier Notifier, cfg Config, log *slog.Logger) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.ReminderWindow <= 0 {
		cfg.ReminderWindow = 24 * time.Hour
	}
	if cfg.MaxEvents <= 0 {
		cfg.MaxEvents = 500
	}
	if log == nil {
		log = slog.Default()
	}
	if notifier == nil {
		notifier = LogNotifier{Log: log}
	}
	return &Service{repos: repos, notifier: notifier, cfg: cfg, log: log, now: time.Now}
}

func (s *Service) today() time.Time {
	n := s.now().In(s.cfg.Location)
	return time.Date(n.Year(), n.Month(), n.Day(), 0, 0, 0, 0, s.cfg.Location)
}

// BookableDates lists the dates the booking flow offers.
func (s *Service) BookableDates() []string {
	return BookableDates(s.today())
}

// AvailableSlots returns the open times on date.
func (s *Service) AvailableSlots(ctx context.Context, date string) ([]string, error) {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return nil, ErrInvalidDate
	}
	appts, err := s.repos.Appointments.List(ctx)
	if err != nil {
		return nil, err
	}
	return AvailableSlots(appts, date), nil
}

// BookAppointment creates a patient record and a pending appointment for it.
// The slot check and both inserts happen in one mutation, so two bookings of
// the same slot cannot both succeed.
func (s *Service) BookAppointment(ctx context.Context, actor identity.Actor, req BookingRequest) (Booking, error) {
	if _, err := time.Parse(DateLayout, req.Date); err != nil {
		return Booking{}, ErrInvalidDate
	}
	if !isTimeSlot(req.Time) || !isBookableDate(req.Date, s.today()) {
		return Booking{}, ErrSlotUnavailable
	}

	svc, err := s.repos.Services.Get(ctx, req.ServiceID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !svc.IsActive) {
		return Booking{}, ErrServiceUnavailable
	}
	if err != nil {
		return Booking{}, fmt.Errorf("load service: %w", err)
	}

	now := s.now().UTC()
	email := identity.NormalizeEmail(req.Email)
	patient := Patient{
		ID:          uuid.NewString(),
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       email,
		Phone:       req.Phone,
		DateOfBirth: req.DateOfBirth,
		Gender:      req.Gender,
		Insurance: Insurance{
			Provider:     req.InsuranceProvider,
			PolicyNumber: req.InsurancePolicyNumber,
		},
		MedicalHistory:     req.MedicalHistory,
		Allergies:          []string{},
		CurrentMedications: []string{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if actor.Authenticated() {
		patient.UserID = actor.UserID
	}

	duration := svc.Duration
	if duration <= 0 {
		duration = defaultDuration
	}
	appt := Appointment{
		ID:           uuid.NewString(),
		PatientID:    patient.ID,
		PatientName:  patient.FullName(),
		PatientEmail: email,
		PatientPhone: req.Phone,
		ServiceID:    svc.ID,
		ServiceName:  svc.Name,
		Date:         req.Date,
		Time:         req.Time,
		Duration:     duration,
		Status:       StatusPending,
		Reason:       req.Reason,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.repos.Tx.Mutate(ctx, func(st *State) error {
		for _, a := range st.Appointments {
			if a.Date == appt.Date && a.Time == appt.Time && a.Status.HoldsSlot() {
				return ErrSlotAlreadyBooked
			}
		}
		st.Patients = append(st.Patients, patient)
		st.Appointments = append(st.Appointments, appt)
		s.appendEvent(st, EventAppointmentBooked, appt.ID, actor.UserID, map[string]string{
			"patient_id": patient.ID,
			"service_id": svc.ID,
			"slot":       appt.Date + " " + appt.Time,
		})
		return nil
	})
	if err != nil {
		return Booking{}, err
	}

	s.log.Info("appointment booked",
		slog.String("appointment_id", appt.ID),
		slog.String("date", appt.Date),
		slog.String("time", appt.Time),
	)
	if err := s.notifier.AppointmentBooked(ctx, appt); err != nil {
		s.log.Warn("booking notification failed",
			slog.String("appointment_id", appt.ID),
			slog.String("error", err.Error()),
		)
	}
	return Booking{Patient: patient, Appointment: appt}, nil
}

func (s *Service) ListAppointments(ctx context.Context, actor identity.Actor, f AppointmentFilter) ([]Appointment, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	email := identity.NormalizeEmail(f.Email)
	return s.repos.Appointments.Find(ctx, func(a Appointment) bool {
		return (f.Date == "" || a.Date == f.Date) &&
			(f.Status == "" || a.Status == f.Status) &&
			(email == "" || identity.NormalizeEmail(a.PatientEmail) == email)
	})
}

func (s *Service) GetAppointment(ctx context.Context, actor identity.Actor, id string) (Appointment, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Appointment{}, err
	}
	return s.repos.Appointments.Get(ctx, id)
}

// UpdateAppointmentStatus moves an appointment along its lifecycle. reason is
// recorded when the appointment is cancelled.
func (s *Service) UpdateAppointmentStatus(ctx context.Context, actor identity.Actor, id string, next AppointmentStatus, reason string) (Appointment, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Appointment{}, err
	}
	return s.changeStatus(ctx, actor, id, next, reason, nil)
}

// CancelMyAppointment lets a patient cancel one of their own appointments.
// Appointments booked under another email are reported as not found.
func (s *Service) CancelMyAppointment(ctx context.Context, actor identity.Actor, id, reason string) (Appointment, error) {
	if !actor.Authenticated() {
		return Appointment{}, identity.ErrUnauthenticated
	}
	email := identity.NormalizeEmail(actor.Email)
	return s.changeStatus(ctx, actor, id, StatusCancelled, reason, func(a Appointment) bool {
		return identity.NormalizeEmail(a.PatientEmail) == email
	})
}

func (s *Service) changeStatus(ctx context.Context, actor identity.Actor, id string, next AppointmentStatus, reason string, owns func(Appointment) bool) (Appointment, error) {
	if !next.Valid() {
		return Appointment{}, ErrInvalidStatus
	}
	now := s.now().UTC()
	var out Appointment
	err := s.repos.Tx.Mutate(ctx, func(st *State) error {
		for i := range st.Appointments {
			a := &st.Appointments[i]
			if a.ID != id {
				continue
			}
			if owns != nil && !owns(*a) {
				return store.ErrNotFound
			}
			if !a.Status.CanMoveTo(next) {
				return ErrInvalidStatusTransition
			}
			prev := a.Status
			a.Status = next
			if next == StatusCancelled {
				a.CancellationReason = reason
			}
			a.UpdatedAt = now
			out = *a
			s.appendEvent(st, EventAppointmentStatus, id, actor.UserID, map[string]string{
				"from": string(prev),
				"to":   string(next),
			})
			return nil
		}
		return store.ErrNotFound
	})
	if err != nil {
		return Appointment{}, err
	}
	s.log.Info("appointment status changed",
		slog.String("appointment_id", id),
		slog.String("status", string(next)),
		slog.String("by", actor.UserID),
	)
	return out, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, actor identity.Actor, id string, p AppointmentPatch) (Appointment, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Appointment{}, err
	}
	now := s.now().UTC()
	return s.repos.Appointments.Update(ctx, id, func(a *Appointment) error {
		setString(&a.ProviderID, p.ProviderID)
		setString(&a.ProviderName, p.ProviderName)
		setString(&a.Notes, p.Notes)
		a.UpdatedAt = now
		return nil
	})
}

func (s *Service) DeleteAppointment(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Tx.Mutate(ctx, func(st *State) error {
		for i, a := range st.Appointments {
			if a.ID == id {
				st.Appointments = append(st.Appointments[:i:i], st.Appointments[i+1:]...)
				s.appendEvent(st, EventAppointmentDeleted, id, actor.UserID, nil)
				return nil
			}
		}
		return store.ErrNotFound
	})
}

// AppointmentEvents returns the audit trail of one appointment, oldest first.
func (s *Service) AppointmentEvents(ctx context.Context, actor identity.Actor, id string) ([]Event, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Events.Find(ctx, func(e Event) bool { return e.AppointmentID == id })
}

// MyAppointments is the patient portal: appointments booked under the
// actor's email.
func (s *Service) MyAppointments(ctx context.Context, actor identity.Actor) (Portal, error) {
	if !actor.Authenticated() {
		return Portal{}, identity.ErrUnauthenticated
	}
	email := identity.NormalizeEmail(actor.Email)
	mine, err := s.repos.Appointments.Find(ctx, func(a Appointment) bool {
		return identity.NormalizeEmail(a.PatientEmail) == email
	})
	if err != nil {
		return Portal{}, err
	}
	return SplitPortal(mine, s.today().Format(DateLayout)), nil
}

// ListPatients returns patients whose name or email contains query.
func (s *Service) ListPatients(ctx context.Context, actor identity.Actor, query string) ([]Patient, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	return s.repos.Patients.Find(ctx, func(p Patient) bool {
		return q == "" ||
			strings.Contains(strings.ToLower(p.FullName()), q) ||
			strings.Contains(strings.ToLower(p.Email), q)
	})
}

func (s *Service) GetPatient(ctx context.Context, actor identity.Actor, id string) (Patient, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Patient{}, err
	}
	return s.repos.Patients.Get(ctx, id)
}

func (s *Service) UpdatePatient(ctx context.Context, actor identity.Actor, id string, p PatientPatch) (Patient, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Patient{}, err
	}
	now := s.now().UTC()
	return s.repos.Patients.Update(ctx, id, func(rec *Patient) error {
		setString(&rec.FirstName, p.FirstName)
		setString(&rec.LastName, p.LastName)
		setString(&rec.Phone, p.Phone)
		setString(&rec.DateOfBirth, p.DateOfBirth)
		setString(&rec.MedicalHistory, p.MedicalHistory)
		setString(&rec.BloodType, p.BloodType)
		if p.Gender != nil {
			rec.Gender = *p.Gender
		}
		if p.Address != nil {
			rec.Address = *p.Address
		}
		if p.EmergencyContact != nil {
			rec.EmergencyContact = *p.EmergencyContact
		}
		if p.Insurance != nil {
			rec.Insurance = *p.Insurance
		}
		if p.Allergies != nil {
			rec.Allergies = p.Allergies
		}
		if p.CurrentMedications != nil {
			rec.CurrentMedications = p.CurrentMedications
		}
		rec.UpdatedAt = now
		return nil
	})
}

// DeletePatient removes the patient record; appointments keep their
// denormalised patient fields.
func (s *Service) DeletePatient(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Patients.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context, actor identity.Actor) (Stats, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Stats{}, err
	}
	var st Stats
	today := s.today().Format(DateLayout)
	patients, err := s.repos.Patients.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	appts, err := s.repos.Appointments.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	services, err := s.repos.Services.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	st.TotalPatients = len(patients)
	for _, a := range appts {
		if a.Date == today {
			st.AppointmentsToday++
		}
		if a.Status == StatusPending {
			st.PendingAppointments++
		}
	}
	for _, svc := range services {
		if svc.IsActive {
			st.ActiveServices++
		}
	}
	return st, nil
}

// appendEvent records an audit entry, keeping at most cfg.MaxEvents.
func (s *Service) appendEvent(st *State, typ, appointmentID, actorID string, payload map[string]string) {
	st.Events = append(st.Events, Event{
		ID:            uuid.NewString(),
		Type:          typ,
		AppointmentID: appointmentID,
		ActorID:       actorID,
		Payload:       payload,
		CreatedAt:     s.now().UTC(),
	})
	if over := len(st.Events) - s.cfg.MaxEvents; over > 0 {
		st.Events = append([]Event(nil), st.Events[over:]...)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
