package api

import (
	"errors"
	"net/http"

	"github.com/hackgods/vortex-care/internal/clinic"
)

func searchServicesHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		services, err := d.clinic.SearchServices(r.Context(), q.Get("q"), q.Get("category"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, services)
	}
}

func serviceCategoriesHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cats, err := d.clinic.ServiceCategories(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, cats)
	}
}

func getServiceHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, err := d.clinic.GetService(r.Context(), ActorFrom(r.Context()), idParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, svc)
	}
}

func bookableDatesHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.clinic.BookableDates())
	}
}

func availableSlotsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		date := r.URL.Query().Get("date")
		slots, err := d.clinic.AvailableSlots(r.Context(), date)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SlotsResponse{Date: date, Slots: slots})
	}
}

func bookingOutcome(err error) string {
	switch {
	case err == nil:
		return "booked"
	case errors.Is(err, clinic.ErrSlotAlreadyBooked):
		return "conflict"
	case errors.Is(err, clinic.ErrSlotUnavailable),
		errors.Is(err, clinic.ErrInvalidDate),
		errors.Is(err, clinic.ErrServiceUnavailable):
		return "rejected"
	default:
		return "error"
	}
}

func bookAppointmentHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BookingRequest
		clean := func() {
			d.sanitizer.Strings(&req.FirstName, &req.LastName, &req.Phone, &req.Reason,
				&req.MedicalHistory, &req.InsuranceProvider, &req.InsurancePolicyNumber)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}

		booking, err := d.clinic.BookAppointment(r.Context(), ActorFrom(r.Context()), req.input())
		d.metrics.RecordBooking(bookingOutcome(err))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, booking)
	}
}

func approvedTestimonialsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ts, err := d.clinic.ApprovedTestimonials(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, ts)
	}
}

func submitTestimonialHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TestimonialRequest
		clean := func() {
			d.sanitizer.Strings(&req.PatientName, &req.Content)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		t, err := d.clinic.SubmitTestimonial(r.Context(), clinic.TestimonialInput{
			PatientName: req.PatientName,
			Rating:      req.Rating,
			Content:     req.Content,
			Image:       req.Image,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusAccepted, t)
	}
}

func activeTeamHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := d.clinic.ActiveTeam(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, team)
	}
}

func myAppointmentsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		portal, err := d.clinic.MyAppointments(r.Context(), ActorFrom(r.Context()))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, portal)
	}
}

func cancelMyAppointmentHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CancelRequest
		clean := func() {
			d.sanitizer.Strings(&req.Reason)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		appt, err := d.clinic.CancelMyAppointment(r.Context(), ActorFrom(r.Context()), idParam(r), req.Reason)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, appt)
	}
}
