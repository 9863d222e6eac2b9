package clinic

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/storage"
	"github.com/hackgods/vortex-care/internal/store"
)

var (
	staff   = identity.Actor{UserID: "u-staff", Role: identity.RoleStaff}
	patient = identity.Actor{UserID: "u-pat", Email: "jane@example.com", Role: identity.RolePatient}
	// Wednesday 14 October 2026, 08:00 UTC.
	clock = time.Date(2026, 10, 14, 8, 0, 0, 0, time.UTC)
)

type recordingNotifier struct {
	mu        sync.Mutex
	booked    []string
	reminded  []string
	remindErr error
}

func (n *recordingNotifier) AppointmentBooked(_ context.Context, a Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, a.ID)
	return nil
}

func (n *recordingNotifier) AppointmentReminder(_ context.Context, a Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.remindErr != nil {
		return n.remindErr
	}
	n.reminded = append(n.reminded, a.ID)
	return nil
}

func fixtureState() State {
	return State{
		Services: []MedicalService{
			{ID: "s-gp", Name: "General Consultation", Category: "Primary Care", Description: "Routine check-ups and diagnosis.", Duration: 30, IsActive: true},
			{ID: "s-cardio", Name: "Cardiology", Category: "Specialist", Description: "Heart health screening.", Duration: 45, IsActive: true},
			{ID: "s-dental", Name: "Dental Cleaning", Category: "Dental", Description: "Scale and polish.", IsActive: true},
			{ID: "s-old", Name: "Retired Service", Category: "Legacy", Description: "No longer offered.", IsActive: false},
		},
		Testimonials: []Testimonial{
			{ID: "t1", PatientName: "A", Rating: 5, Content: "Great", IsApproved: true},
			{ID: "t2", PatientName: "B", Rating: 4, Content: "Good", IsApproved: false},
		},
		TeamMembers: []TeamMember{
			{ID: "m1", Name: "Dr. Sarah Johnson", IsActive: true},
			{ID: "m2", Name: "Dr. Gone", IsActive: false},
		},
	}
}

func newService(t *testing.T) (*Service, *recordingNotifier, storage.Store) {
	t.Helper()
	kv := storage.NewMemory()
	repos, err := Open(context.Background(), kv, fixtureState)
	require.NoError(t, err)
	n := &recordingNotifier{}
	svc := NewService(repos, n, Config{ReminderWindow: 48 * time.Hour, MaxEvents: 50}, nil)
	svc.now = func() time.Time { return clock }
	return svc, n, kv
}

func booking(date, at string) BookingRequest {
	return BookingRequest{
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       " Jane@Example.com",
		Phone:       "5551234567",
		DateOfBirth: "1990-04-01",
		Gender:      GenderFemale,
		ServiceID:   "s-cardio",
		Date:        date,
		Time:        at,
		Reason:      "Follow-up on palpitations",
	}
}

func TestBookAppointment_CreatesPatientAndPendingAppointment(t *testing.T) {
	svc, n, _ := newService(t)
	ctx := context.Background()

	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "14:00"))
	require.NoError(t, err)

	assert.Equal(t, StatusPending, b.Appointment.Status)
	assert.Equal(t, b.Patient.ID, b.Appointment.PatientID)
	assert.Equal(t, "Jane Doe", b.Appointment.PatientName)
	assert.Equal(t, "jane@example.com", b.Appointment.PatientEmail)
	assert.Equal(t, "Cardiology", b.Appointment.ServiceName)
	assert.Equal(t, 45, b.Appointment.Duration)
	assert.False(t, b.Appointment.ReminderSent)
	assert.Empty(t, b.Patient.UserID)
	assert.Equal(t, []string{b.Appointment.ID}, n.booked)

	patients, err := svc.ListPatients(ctx, staff, "")
	require.NoError(t, err)
	assert.Len(t, patients, 1)

	events, err := svc.AppointmentEvents(ctx, staff, b.Appointment.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, EventAppointmentBooked, events[0].Type)
}

func TestBookAppointment_DefaultDurationAndLinkedUser(t *testing.T) {
	svc, _, _ := newService(t)

	req := booking("2026-10-20", "09:00")
	req.ServiceID = "s-dental"
	b, err := svc.BookAppointment(context.Background(), patient, req)
	require.NoError(t, err)

	assert.Equal(t, 30, b.Appointment.Duration)
	assert.Equal(t, patient.UserID, b.Patient.UserID)
}

func TestBookAppointment_SlotLifecycle(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	const day = "2026-10-20"

	first, err := svc.BookAppointment(ctx, identity.Actor{}, booking(day, "14:00"))
	require.NoError(t, err)

	slots, err := svc.AvailableSlots(ctx, day)
	require.NoError(t, err)
	assert.NotContains(t, slots, "14:00")
	assert.Len(t, slots, len(TimeSlots)-1)

	_, err = svc.BookAppointment(ctx, identity.Actor{}, booking(day, "14:00"))
	assert.ErrorIs(t, err, ErrSlotAlreadyBooked)

	_, err = svc.UpdateAppointmentStatus(ctx, staff, first.Appointment.ID, StatusCancelled, "patient called")
	require.NoError(t, err)

	slots, err = svc.AvailableSlots(ctx, day)
	require.NoError(t, err)
	assert.Contains(t, slots, "14:00")

	_, err = svc.BookAppointment(ctx, identity.Actor{}, booking(day, "14:00"))
	assert.NoError(t, err)
}

func TestBookAppointment_FailedBookingLeavesNoPatient(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "10:00"))
	require.NoError(t, err)
	_, err = svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "10:00"))
	require.ErrorIs(t, err, ErrSlotAlreadyBooked)

	patients, err := svc.ListPatients(ctx, staff, "")
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestBookAppointment_Rejections(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name string
		mod  func(r *BookingRequest)
		want error
	}{
		{"time not offered", func(r *BookingRequest) { r.Time = "13:00" }, ErrSlotUnavailable},
		{"sunday", func(r *BookingRequest) { r.Date = "2026-10-18" }, ErrSlotUnavailable},
		{"today", func(r *BookingRequest) { r.Date = "2026-10-14" }, ErrSlotUnavailable},
		{"beyond horizon", func(r *BookingRequest) { r.Date = "2026-11-14" }, ErrSlotUnavailable},
		{"bad date", func(r *BookingRequest) { r.Date = "20/10/2026" }, ErrInvalidDate},
		{"unknown service", func(r *BookingRequest) { r.ServiceID = "s-none" }, ErrServiceUnavailable},
		{"inactive service", func(r *BookingRequest) { r.ServiceID = "s-old" }, ErrServiceUnavailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := booking("2026-10-20", "11:00")
			tc.mod(&req)
			_, err := svc.BookAppointment(ctx, identity.Actor{}, req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestBookableDates(t *testing.T) {
	dates := BookableDates(clock)

	assert.Len(t, dates, 26)
	assert.Equal(t, "2026-10-15", dates[0])
	assert.Equal(t, "2026-11-13", dates[len(dates)-1])
	assert.NotContains(t, dates, "2026-10-18")
	assert.NotContains(t, dates, "2026-10-14")
}

func TestAvailableSlots_InvalidDate(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.AvailableSlots(context.Background(), "tomorrow")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateAppointmentStatus_Transitions(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "15:00"))
	require.NoError(t, err)
	id := b.Appointment.ID

	_, err = svc.UpdateAppointmentStatus(ctx, patient, id, StatusConfirmed, "")
	assert.ErrorIs(t, err, identity.ErrForbidden)

	_, err = svc.UpdateAppointmentStatus(ctx, staff, id, "rescheduled", "")
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdateAppointmentStatus(ctx, staff, id, StatusCompleted, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	a, err := svc.UpdateAppointmentStatus(ctx, staff, id, StatusConfirmed, "")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, a.Status)

	a, err = svc.UpdateAppointmentStatus(ctx, staff, id, StatusCompleted, "")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, a.Status)

	_, err = svc.UpdateAppointmentStatus(ctx, staff, id, StatusCancelled, "")
	assert.ErrorIs(t, err, ErrInvalidStatusTransition)

	_, err = svc.UpdateAppointmentStatus(ctx, staff, "missing", StatusConfirmed, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	events, err := svc.AppointmentEvents(ctx, staff, id)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestCancelMyAppointment(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	mine, err := svc.BookAppointment(ctx, patient, booking("2026-10-21", "09:30"))
	require.NoError(t, err)
	otherReq := booking("2026-10-21", "10:00")
	otherReq.Email = "other@example.com"
	other, err := svc.BookAppointment(ctx, identity.Actor{}, otherReq)
	require.NoError(t, err)

	_, err = svc.CancelMyAppointment(ctx, patient, other.Appointment.ID, "")
	assert.ErrorIs(t, err, store.ErrNotFound)

	a, err := svc.CancelMyAppointment(ctx, patient, mine.Appointment.ID, "conflict at work")
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, a.Status)
	assert.Equal(t, "conflict at work", a.CancellationReason)

	_, err = svc.CancelMyAppointment(ctx, identity.Actor{}, mine.Appointment.ID, "")
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestMyAppointments_SplitsUpcomingAndPast(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	upcoming, err := svc.BookAppointment(ctx, patient, booking("2026-10-22", "09:00"))
	require.NoError(t, err)
	done, err := svc.BookAppointment(ctx, patient, booking("2026-10-23", "09:00"))
	require.NoError(t, err)
	cancelled, err := svc.BookAppointment(ctx, patient, booking("2026-10-26", "09:00"))
	require.NoError(t, err)

	for _, st := range []AppointmentStatus{StatusConfirmed, StatusCompleted} {
		_, err = svc.UpdateAppointmentStatus(ctx, staff, done.Appointment.ID, st, "")
		require.NoError(t, err)
	}
	_, err = svc.UpdateAppointmentStatus(ctx, staff, cancelled.Appointment.ID, StatusCancelled, "")
	require.NoError(t, err)

	// Ten days later the first two dates are in the past.
	svc.now = func() time.Time { return clock.AddDate(0, 0, 10) }

	portal, err := svc.MyAppointments(ctx, identity.Actor{UserID: "x", Email: "JANE@example.com"})
	require.NoError(t, err)
	assert.Empty(t, portal.Upcoming)
	require.Len(t, portal.Past, 2)
	assert.ElementsMatch(t, []string{upcoming.Appointment.ID, done.Appointment.ID},
		[]string{portal.Past[0].ID, portal.Past[1].ID})

	svc.now = func() time.Time { return clock }
	portal, err = svc.MyAppointments(ctx, patient)
	require.NoError(t, err)
	assert.Len(t, portal.Upcoming, 2)
	assert.Len(t, portal.Past, 1)
}

func TestSendDueReminders(t *testing.T) {
	svc, n, _ := newService(t)
	ctx := context.Background()

	soon, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "09:00"))
	require.NoError(t, err)
	cancelled, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "10:00"))
	require.NoError(t, err)
	_, err = svc.UpdateAppointmentStatus(ctx, staff, cancelled.Appointment.ID, StatusCancelled, "")
	require.NoError(t, err)

	sent, err := svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, sent)
	assert.Equal(t, []string{soon.Appointment.ID}, n.reminded)

	a, err := svc.GetAppointment(ctx, staff, soon.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, a.ReminderSent)

	sent, err = svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)
}

func TestSendDueReminders_NotifierFailureLeavesFlag(t *testing.T) {
	svc, n, _ := newService(t)
	ctx := context.Background()
	n.remindErr = errors.New("sms gateway down")

	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)

	sent, err := svc.SendDueReminders(ctx)
	require.NoError(t, err)
	assert.Zero(t, sent)

	a, err := svc.GetAppointment(ctx, staff, b.Appointment.ID)
	require.NoError(t, err)
	assert.False(t, a.ReminderSent)
}

func TestBooking_SurvivesReload(t *testing.T) {
	svc, _, kv := newService(t)
	ctx := context.Background()

	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "16:30"))
	require.NoError(t, err)

	repos, err := Open(ctx, kv, nil)
	require.NoError(t, err)
	reloaded := NewService(repos, nil, Config{}, nil)

	got, err := reloaded.GetAppointment(ctx, staff, b.Appointment.ID)
	require.NoError(t, err)
	assert.True(t, b.Appointment.CreatedAt.Equal(got.CreatedAt))
	got.CreatedAt, got.UpdatedAt = b.Appointment.CreatedAt, b.Appointment.UpdatedAt
	assert.Equal(t, b.Appointment, got)

	slots, err := reloaded.AvailableSlots(ctx, "2026-10-20")
	require.NoError(t, err)
	assert.NotContains(t, slots, "16:30")
}

func TestStats(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	_, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)

	svc.now = func() time.Time { return clock.AddDate(0, 0, 1) }
	st, err := svc.Stats(ctx, staff)
	require.NoError(t, err)
	assert.Equal(t, Stats{TotalPatients: 1, AppointmentsToday: 1, PendingAppointments: 1, ActiveServices: 3}, st)

	_, err = svc.Stats(ctx, patient)
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestEventsAreCapped(t *testing.T) {
	svc, _, _ := newService(t)
	svc.cfg.MaxEvents = 2
	ctx := context.Background()

	for _, at := range []string{"09:00", "09:30", "10:00"} {
		_, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", at))
		require.NoError(t, err)
	}
	events, err := svc.repos.Events.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

type slowStore struct {
	*storage.Memory
}

func (s slowStore) Get(ctx context.Context, key string) ([]byte, error) {
	time.Sleep(time.Millisecond)
	return s.Memory.Get(ctx, key)
}

func TestBookAppointment_ConcurrentSameSlot(t *testing.T) {
	ctx := context.Background()
	kv := slowStore{Memory: storage.NewMemory()}
	repos, err := Open(ctx, kv, fixtureState)
	require.NoError(t, err)
	n := &recordingNotifier{}
	svc := NewService(repos, n, Config{MaxEvents: 50}, nil)
	svc.now = func() time.Time { return clock }

	const callers = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded []string
		conflicts int
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "14:00"))
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded = append(succeeded, b.Appointment.ID)
			case errors.Is(err, ErrSlotAlreadyBooked):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	require.Len(t, succeeded, 1)
	assert.Equal(t, callers-1, conflicts)

	appts, err := svc.ListAppointments(ctx, staff, AppointmentFilter{Date: "2026-10-20"})
	require.NoError(t, err)
	require.Len(t, appts, 1)
	assert.Equal(t, succeeded[0], appts[0].ID)

	patients, err := svc.ListPatients(ctx, staff, "")
	require.NoError(t, err)
	assert.Len(t, patients, 1)
}

func TestSendDueReminders_ConcurrentRunsRemindOnce(t *testing.T) {
	svc, n, _ := newService(t)
	ctx := context.Background()

	_, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		total int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sent, err := svc.SendDueReminders(ctx)
			assert.NoError(t, err)
			mu.Lock()
			total += sent
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, total)
	assert.Len(t, n.reminded, 1)
}

func TestClaimReminder_RechecksStatus(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.UpdateAppointmentStatus(ctx, staff, b.Appointment.ID, StatusCancelled, "")
	require.NoError(t, err)

	claimed, err := svc.claimReminder(ctx, b.Appointment.ID, clock)
	require.NoError(t, err)
	assert.False(t, claimed)

	live, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "10:00"))
	require.NoError(t, err)
	claimed, err = svc.claimReminder(ctx, live.Appointment.ID, clock)
	require.NoError(t, err)
	assert.True(t, claimed)
	claimed, err = svc.claimReminder(ctx, live.Appointment.ID, clock)
	require.NoError(t, err)
	assert.False(t, claimed)
}

func TestSendDueReminders_FailureDropsReminderEvent(t *testing.T) {
	svc, n, _ := newService(t)
	ctx := context.Background()
	n.remindErr = errors.New("sms gateway down")

	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-15", "09:00"))
	require.NoError(t, err)
	_, err = svc.SendDueReminders(ctx)
	require.NoError(t, err)

	events, err := svc.AppointmentEvents(ctx, staff, b.Appointment.ID)
	require.NoError(t, err)
	for _, e := range events {
		assert.NotEqual(t, EventAppointmentReminder, e.Type)
	}
}
