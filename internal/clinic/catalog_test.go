package clinic

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/store"
)

func TestSearchServices(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	cases := []struct {
		name     string
		keyword  string
		category string
		want     []string
	}{
		{"all", "", "", []string{"s-gp", "s-cardio", "s-dental"}},
		{"All category", "", AllCategories, []string{"s-gp", "s-cardio", "s-dental"}},
		{"keyword in name", "CARDIO", "", []string{"s-cardio"}},
		{"keyword in description", "polish", "", []string{"s-dental"}},
		{"category", "", "Primary Care", []string{"s-gp"}},
		{"inactive hidden", "retired", "", nil},
		{"conjunctive", "heart", "Dental", nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.SearchServices(ctx, tc.keyword, tc.category)
			require.NoError(t, err)
			var ids []string
			for _, s := range got {
				ids = append(ids, s.ID)
			}
			assert.Equal(t, tc.want, ids)
		})
	}
}

func TestServiceCategories(t *testing.T) {
	svc, _, _ := newService(t)
	cats, err := svc.ServiceCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"All", "Primary Care", "Specialist", "Dental"}, cats)
}

func TestServiceLifecycle(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.CreateService(ctx, patient, ServiceInput{Name: "X"})
	assert.ErrorIs(t, err, identity.ErrForbidden)

	created, err := svc.CreateService(ctx, staff, ServiceInput{Name: "Flu Shot & Vaccines", Category: "Primary Care", Price: 25})
	require.NoError(t, err)
	assert.Equal(t, "flu-shot-vaccines", created.Slug)
	assert.Equal(t, 30, created.Duration)

	inactive := false
	updated, err := svc.UpdateService(ctx, staff, created.ID, ServicePatch{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)

	_, err = svc.GetService(ctx, identity.Actor{}, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = svc.GetService(ctx, staff, created.ID)
	assert.NoError(t, err)

	require.NoError(t, svc.DeleteService(ctx, staff, created.ID))
	assert.ErrorIs(t, svc.DeleteService(ctx, staff, created.ID), store.ErrNotFound)
}

func TestTestimonials(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	_, err := svc.SubmitTestimonial(ctx, TestimonialInput{PatientName: "C", Rating: 6, Content: "?"})
	assert.ErrorIs(t, err, ErrInvalidRating)

	tm, err := svc.SubmitTestimonial(ctx, TestimonialInput{PatientName: "C", Rating: 5, Content: "Lovely staff"})
	require.NoError(t, err)
	assert.False(t, tm.IsApproved)

	approved, err := svc.ApprovedTestimonials(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 1)

	_, err = svc.SetTestimonialApproval(ctx, staff, tm.ID, true)
	require.NoError(t, err)
	approved, err = svc.ApprovedTestimonials(ctx)
	require.NoError(t, err)
	assert.Len(t, approved, 2)

	require.NoError(t, svc.DeleteTestimonial(ctx, staff, "t1"))
	all, err := svc.ListTestimonials(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestTeam(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	active, err := svc.ActiveTeam(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "m1", active[0].ID)

	m, err := svc.CreateTeamMember(ctx, staff, TeamMemberInput{Name: "Nurse Kim", Email: "KIM@vortexcare.com", IsActive: true})
	require.NoError(t, err)
	assert.Equal(t, "kim@vortexcare.com", m.Email)
	assert.Equal(t, []string{}, m.Qualifications)

	updated, err := svc.UpdateTeamMember(ctx, staff, m.ID, TeamMemberInput{Name: "Nurse Kim Lee", IsActive: false})
	require.NoError(t, err)
	assert.Equal(t, "Nurse Kim Lee", updated.Name)
	assert.Equal(t, m.CreatedAt, updated.CreatedAt)

	_, err = svc.UpdateTeamMember(ctx, staff, "missing", TeamMemberInput{})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, svc.DeleteTeamMember(ctx, staff, m.ID))
	team, err := svc.ListTeam(ctx, staff)
	require.NoError(t, err)
	assert.Len(t, team, 2)
}

func TestPatients(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()
	b, err := svc.BookAppointment(ctx, identity.Actor{}, booking("2026-10-20", "09:00"))
	require.NoError(t, err)

	found, err := svc.ListPatients(ctx, staff, "doe")
	require.NoError(t, err)
	assert.Len(t, found, 1)
	found, err = svc.ListPatients(ctx, staff, "nobody")
	require.NoError(t, err)
	assert.Empty(t, found)

	blood := "O+"
	p, err := svc.UpdatePatient(ctx, staff, b.Patient.ID, PatientPatch{BloodType: &blood, Allergies: []string{"penicillin"}})
	require.NoError(t, err)
	assert.Equal(t, "O+", p.BloodType)
	assert.Equal(t, []string{"penicillin"}, p.Allergies)
	assert.Equal(t, "Jane", p.FirstName)

	require.NoError(t, svc.DeletePatient(ctx, staff, b.Patient.ID))
	a, err := svc.GetAppointment(ctx, staff, b.Appointment.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", a.PatientName)
}
