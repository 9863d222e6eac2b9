package api

import (
	"net/http"

	"github.com/hackgods/vortex-care/internal/recruitment"
)

func searchJobsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		jobs, err := d.recruitment.SearchJobs(r.Context(), recruitment.JobQuery{
			Keyword:    q.Get("q"),
			JobType:    recruitment.JobType(q.Get("type")),
			Department: q.Get("department"),
			Location:   q.Get("location"),
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func jobFacetsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		facets, err := d.recruitment.JobFacets(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, facets)
	}
}

func getJobHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, err := d.recruitment.GetPosition(r.Context(), ActorFrom(r.Context()), idParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func applyHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ApplicationRequest
		clean := func() {
			d.sanitizer.Strings(&req.ApplicantName, &req.ApplicantPhone, &req.Qualifications, &req.CoverLetter, &req.Resume)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		job, err := d.recruitment.GetPosition(r.Context(), ActorFrom(r.Context()), idParam(r))
		if err != nil {
			handleError(w, r, err)
			return
		}
		application, err := d.recruitment.AddJobApplication(r.Context(), recruitment.ApplicationInput{
			PositionID:        job.ID,
			JobTitle:          job.Title,
			ApplicantName:     req.ApplicantName,
			ApplicantEmail:    req.ApplicantEmail,
			ApplicantPhone:    req.ApplicantPhone,
			Resume:            req.Resume,
			CoverLetter:       req.CoverLetter,
			Qualifications:    req.Qualifications,
			YearsOfExperience: req.YearsOfExperience,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, application)
	}
}

func settingsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s, err := d.recruitment.Settings(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, s)
	}
}

func contactHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ContactRequest
		clean := func() {
			d.sanitizer.Strings(&req.Name, &req.Phone, &req.Subject, &req.Message)
		}
		if err := decode(w, r, d.validator, &req, clean); err != nil {
			handleError(w, r, err)
			return
		}
		m, err := d.recruitment.AddContactMessage(r.Context(), recruitment.MessageInput{
			Name:    req.Name,
			Email:   req.Email,
			Phone:   req.Phone,
			Subject: req.Subject,
			Message: req.Message,
		})
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusCreated, m)
	}
}

func myApplicationsHandler(d deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		apps, stats, err := d.recruitment.MyApplications(r.Context(), ActorFrom(r.Context()), r.URL.Query().Get("q"))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, SeekerResponse{Applications: apps, Stats: stats})
	}
}
