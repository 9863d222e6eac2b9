package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/recruitment"
)

// mountAdmin registers the back-office routes. Each service checks the
// caller's capabilities itself.
func mountAdmin(r chi.Router, d deps) {
	r.Get("/stats", adminStatsHandler(d))

	r.Route("/users", func(r chi.Router) {
		r.Get("/", listUsersHandler(d))
		r.Post("/", createUserHandler(d))
		r.Get("/{id}", getUserHandler(d))
		r.Patch("/{id}", updateUserHandler(d))
		r.Delete("/{id}", deleteUserHandler(d))
		r.Post("/{id}/password", resetPasswordHandler(d))
	})

	r.Route("/jobs", func(r chi.Router) {
		r.Get("/", listPositionsHandler(d))
		r.Post("/", createPositionHandler(d))
		r.Get("/{id}", getJobHandler(d))
		r.Patch("/{id}", updatePositionHandler(d))
		r.Delete("/{id}", deletePositionHandler(d))
	})

	r.Route("/applications", func(r chi.Router) {
		r.Get("/", listApplicationsHandler(d))
		r.Get("/{id}", getApplicationHandler(d))
		r.Patch("/{id}", updateApplicationHandler(d))
		r.Delete("/{id}", deleteApplicationHandler(d))
	})

	r.Route("/messages", func(r chi.Router) {
		r.Get("/", listMessagesHandler(d))
		r.Post("/{id}/read", markMessageReadHandler(d))
		r.Delete("/{id}", deleteMessageHandler(d))
	})

	r.Patch("/settings", updateSettingsHandler(d))

	r.Route("/services", func(r chi.Router) {
		r.Get("/", listServicesHandler(d))
		r.Post("/", createServiceHandler(d))
		r.Get("/{id}", getServiceHandler(d))
		r.Patch("/{id}", updateServiceHandler(d))
		r.Delete("/{id}", deleteServiceHandler(d))
	})

	r.Route("/appointments", func(r chi.Router) {
		r.Get("/", listAppointmentsHandler(d))
		r.Get("/{id}", getAppointmentHandler(d))
		r.Patch("/{id}", updateAppointmentHandler(d))
		r.Post("/{id}/status", appointmentStatusHandler(d))
		r.Get("/{id}/events", appointmentEventsHandler(d))
		r.Delete("/{id}", deleteAppointmentHandler(d))
	})

	r.Route("/patients", func(r chi.Router) {
		r.Get("/", listPatientsHandler(d))
		r.Get("/{id}", getPatientHandler(d))
		r.Patch("/{id}", updatePatientHandler(d))
		r.Delete("/{id}", deletePatientHandler(d))
	})

	r.Route("/testimonials", func(r chi.Router) {
		r.Get("/", listTestimonialsHandler(d))
		r.Post("/{id}/approval", testimonialApprovalHandler(d))
		r.Delete("/{id}", deleteTestimonialHandler(d))
	})

	r.Route("/team", func(r chi.Router) {
		r.Get("/", listTeamHandler(d))
		r.Post("/", createTeamMemberHandler(d))
		r.Put("/{id}", updateTeamMemberHandler(d))
		r.Delete("/{id}", deleteTeamMemberHandler(d))
	})
}

// reply writes v with status, or the mapped error.
func reply(w http.ResponseWriter, r *http.Request, status int, v any, err error) {
	if err != nil {
		handleError(w, r, err)
		return
	}
	if v == nil {
		w.WriteHeader(status)
		return
	}
	writeJSON(w, status, v)
}

func adminStatsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, actor := r.Context(), ActorFrom(r.Context())
		var out StatsResponse
		var err error
		if out.Recruitment, err = d.recruitment.Stats(ctx, actor); err != nil {
			handleError(w, r, err)
			return
		}
		if out.Clinic, err = d.clinic.Stats(ctx, actor); err != nil {
			handleError(w, r, err)
			return
		}
		out.UsersByRole, err = d.identity.CountByRole(ctx, actor)
		reply(w, r, http.StatusOK, out, err)
	}
}

// Users

func listUsersHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := d.identity.ListUsers(r.Context(), ActorFrom(r.Context()))
		reply(w, r, http.StatusOK, toUserResponses(users), err)
	}
}

func getUserHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u, err := d.identity.GetUser(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, toUserResponse(u), err)
	}
}

func createUserHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateUserRequest
		clean := func() {
			d.sanitizer.Strings(&req.FirstName, &req.LastName, &req.Phone, &req.Department, &req.Specialization)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		u, err := d.identity.CreateUser(r.Context(), ActorFrom(r.Context()), identity.CreateUserInput{
			Email:          req.Email,
			Password:       req.Password,
			FirstName:      req.FirstName,
			LastName:       req.LastName,
			Phone:          req.Phone,
			Role:           identity.Role(req.Role),
			Department:     req.Department,
			Specialization: req.Specialization,
			IsActive:       req.IsActive == nil || *req.IsActive,
		})
		reply(w, r, http.StatusCreated, toUserResponse(u), err)
	}
}

func updateUserHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req UpdateUserRequest
		clean := func() {
			d.sanitizer.Strings(req.FirstName, req.LastName, req.Phone, req.Department, req.Specialization)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		u, err := d.identity.UpdateUserByID(r.Context(), ActorFrom(r.Context()), idParam(r), req.patch())
		reply(w, r, http.StatusOK, toUserResponse(u), err)
	}
}

func deleteUserHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.identity.DeleteUserByID(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func resetPasswordHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ResetPasswordRequest
		if err := decode(w, r, d.validator, &req); err != nil {
			handleError(w, r, err)
			return
		}
		err := d.identity.ResetUserPassword(r.Context(), ActorFrom(r.Context()), idParam(r), req.Password)
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

// Recruitment

func listPositionsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, err := d.recruitment.ListPositions(r.Context(), ActorFrom(r.Context()))
		reply(w, r, http.StatusOK, ps, err)
	}
}

func sanitizePosition(d deps, req *PositionRequest) {
	d.sanitizer.Strings(&req.Title, &req.Slug, &req.Department, &req.Location, &req.Description)
	req.Requirements = d.sanitizer.List(req.Requirements)
	req.Benefits = d.sanitizer.List(req.Benefits)
}

func createPositionHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PositionRequest
		clean := func() {
			sanitizePosition(d, &req)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		p, err := d.recruitment.CreatePosition(r.Context(), ActorFrom(r.Context()), req.input())
		reply(w, r, http.StatusCreated, p, err)
	}
}

func updatePositionHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PositionPatchRequest
		clean := func() {
			d.sanitizer.Strings(req.Title, req.Slug, req.Department, req.Location, req.Description)
			req.Requirements = d.sanitizer.List(req.Requirements)
			req.Benefits = d.sanitizer.List(req.Benefits)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		p, err := d.recruitment.UpdatePosition(r.Context(), ActorFrom(r.Context()), idParam(r), req.patch())
		reply(w, r, http.StatusOK, p, err)
	}
}

func deletePositionHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.recruitment.DeletePosition(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listApplicationsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		apps, err := d.recruitment.ListApplications(r.Context(), ActorFrom(r.Context()),
			q.Get("positionId"), recruitment.ApplicationStatus(q.Get("status")))
		reply(w, r, http.StatusOK, apps, err)
	}
}

func getApplicationHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.recruitment.GetApplication(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, a, err)
	}
}

func updateApplicationHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApplicationPatchRequest
		clean := func() {
			d.sanitizer.Strings(req.Notes)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		var patch recruitment.ApplicationPatch
		patch.Notes = req.Notes
		if req.Status != nil {
			st := recruitment.ApplicationStatus(*req.Status)
			patch.Status = &st
		}
		a, err := d.recruitment.UpdateApplication(r.Context(), ActorFrom(r.Context()), idParam(r), patch)
		reply(w, r, http.StatusOK, a, err)
	}
}

func deleteApplicationHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.recruitment.DeleteApplication(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listMessagesHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		unread, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
		ms, err := d.recruitment.ListMessages(r.Context(), ActorFrom(r.Context()), unread)
		reply(w, r, http.StatusOK, ms, err)
	}
}

func markMessageReadHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := d.recruitment.MarkMessageRead(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, m, err)
	}
}

func deleteMessageHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.recruitment.DeleteMessage(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func updateSettingsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SettingsRequest
		clean := func() {
			d.sanitizer.Strings(req.SiteName, req.Tagline, req.Description, req.Phone,
				req.Address, req.OperatingHours, req.EmergencyContact)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		s, err := d.recruitment.UpdateSettings(r.Context(), ActorFrom(r.Context()), req.patch())
		reply(w, r, http.StatusOK, s, err)
	}
}

// Clinic

func listServicesHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svcs, err := d.clinic.ListServices(r.Context(), ActorFrom(r.Context()))
		reply(w, r, http.StatusOK, svcs, err)
	}
}

func createServiceHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ServiceRequest
		clean := func() {
			d.sanitizer.Strings(&req.Name, &req.Slug, &req.Category, &req.Description, &req.ShortDescription, &req.Icon)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		svc, err := d.clinic.CreateService(r.Context(), ActorFrom(r.Context()), req.input())
		reply(w, r, http.StatusCreated, svc, err)
	}
}

func updateServiceHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ServicePatchRequest
		clean := func() {
			d.sanitizer.Strings(req.Name, req.Slug, req.Category, req.Description, req.ShortDescription, req.Icon)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		svc, err := d.clinic.UpdateService(r.Context(), ActorFrom(r.Context()), idParam(r), req.patch())
		reply(w, r, http.StatusOK, svc, err)
	}
}

func deleteServiceHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.clinic.DeleteService(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listAppointmentsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		appts, err := d.clinic.ListAppointments(r.Context(), ActorFrom(r.Context()), clinic.AppointmentFilter{
			Date:   q.Get("date"),
			Status: clinic.AppointmentStatus(q.Get("status")),
			Email:  q.Get("email"),
		})
		reply(w, r, http.StatusOK, appts, err)
	}
}

func getAppointmentHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		a, err := d.clinic.GetAppointment(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, a, err)
	}
}

func updateAppointmentHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req AppointmentPatchRequest
		clean := func() {
			d.sanitizer.Strings(req.ProviderName, req.Notes)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		a, err := d.clinic.UpdateAppointment(r.Context(), ActorFrom(r.Context()), idParam(r), clinic.AppointmentPatch{
			ProviderID:   req.ProviderID,
			ProviderName: req.ProviderName,
			Notes:        req.Notes,
		})
		reply(w, r, http.StatusOK, a, err)
	}
}

func appointmentStatusHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StatusRequest
		clean := func() {
			d.sanitizer.Strings(&req.Reason)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		a, err := d.clinic.UpdateAppointmentStatus(r.Context(), ActorFrom(r.Context()), idParam(r),
			clinic.AppointmentStatus(req.Status), req.Reason)
		reply(w, r, http.StatusOK, a, err)
	}
}

func appointmentEventsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := d.clinic.AppointmentEvents(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, events, err)
	}
}

func deleteAppointmentHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.clinic.DeleteAppointment(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listPatientsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, err := d.clinic.ListPatients(r.Context(), ActorFrom(r.Context()), r.URL.Query().Get("q"))
		reply(w, r, http.StatusOK, ps, err)
	}
}

func getPatientHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := d.clinic.GetPatient(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusOK, p, err)
	}
}

func updatePatientHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req PatientPatchRequest
		clean := func() {
			d.sanitizer.Strings(req.FirstName, req.LastName, req.Phone, req.MedicalHistory)
			req.Allergies = d.sanitizer.List(req.Allergies)
			req.CurrentMedications = d.sanitizer.List(req.CurrentMedications)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		p, err := d.clinic.UpdatePatient(r.Context(), ActorFrom(r.Context()), idParam(r), req.patch())
		reply(w, r, http.StatusOK, p, err)
	}
}

func deletePatientHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.clinic.DeletePatient(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listTestimonialsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := d.clinic.ListTestimonials(r.Context(), ActorFrom(r.Context()))
		reply(w, r, http.StatusOK, ts, err)
	}
}

func testimonialApprovalHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApprovalRequest
		if err := decode(w, r, d.validator, &req); err != nil {
			handleError(w, r, err)
			return
		}
		t, err := d.clinic.SetTestimonialApproval(r.Context(), ActorFrom(r.Context()), idParam(r), req.Approved)
		reply(w, r, http.StatusOK, t, err)
	}
}

func deleteTestimonialHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.clinic.DeleteTestimonial(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}

func listTeamHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := d.clinic.ListTeam(r.Context(), ActorFrom(r.Context()))
		reply(w, r, http.StatusOK, team, err)
	}
}

func sanitizeTeamMember(d deps, req *TeamMemberRequest) {
	d.sanitizer.Strings(&req.Name, &req.Role, &req.Department, &req.Bio, &req.Phone)
	req.Qualifications = d.sanitizer.List(req.Qualifications)
	req.Specializations = d.sanitizer.List(req.Specializations)
}

func createTeamMemberHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamMemberRequest
		clean := func() {
			sanitizeTeamMember(d, &req)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		m, err := d.clinic.CreateTeamMember(r.Context(), ActorFrom(r.Context()), req.input())
		reply(w, r, http.StatusCreated, m, err)
	}
}

func updateTeamMemberHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamMemberRequest
		clean := func() {
			sanitizeTeamMember(d, &req)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		m, err := d.clinic.UpdateTeamMember(r.Context(), ActorFrom(r.Context()), idParam(r), req.input())
		reply(w, r, http.StatusOK, m, err)
	}
}

func deleteTeamMemberHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := d.clinic.DeleteTeamMember(r.Context(), ActorFrom(r.Context()), idParam(r))
		reply(w, r, http.StatusNoContent, nil, err)
	}
}
