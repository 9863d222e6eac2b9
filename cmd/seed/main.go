// Command seed fills the configured storage with demo traffic: job
// applications, contact messages, bookings and testimonials. The baseline
// catalogue and default accounts are written on first open.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/hackgods/vortex-care/internal/app"
	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/config"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/logger"
	"github.com/hackgods/vortex-care/internal/recruitment"
	"github.com/hackgods/vortex-care/internal/seed"
)

type counts struct {
	applications int
	messages     int
	bookings     int
	testimonials int
}

func main() {
	var (
		c       counts
		seedVal = flag.Uint64("seed", uint64(time.Now().UnixNano()), "random seed")
	)
	flag.IntVar(&c.applications, "applications", 40, "job applications to submit")
	flag.IntVar(&c.messages, "messages", 15, "contact messages to submit")
	flag.IntVar(&c.bookings, "bookings", 60, "appointments to book")
	flag.IntVar(&c.testimonials, "testimonials", 10, "testimonials to submit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log := logger.SetupDefault(os.Stdout, cfg.LogLevel)
	log.Info("seed starting", slog.String("storage", cfg.StorageDriver), slog.Uint64("seed", *seedVal))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	a, err := app.New(ctx, cfg, log)
	if err != nil {
		log.Error("app init error", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer a.Close()

	f := seed.NewFaker(*seedVal)
	if err := seedRecruitment(ctx, a, f, c); err != nil {
		log.Error("seed recruitment", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if err := seedClinic(ctx, a, f, c); err != nil {
		log.Error("seed clinic", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("seed complete")
}

func seedRecruitment(ctx context.Context, a *app.App, f *seed.Faker, c counts) error {
	positions, err := a.Recruitment.SearchJobs(ctx, recruitment.JobQuery{})
	if err != nil {
		return err
	}
	if len(positions) == 0 {
		a.Log.Warn("no open positions, skipping applications")
	} else {
		for i := 0; i < c.applications; i++ {
			if _, err := a.Recruitment.AddJobApplication(ctx, f.Application(positions)); err != nil {
				return err
			}
		}
	}
	for i := 0; i < c.messages; i++ {
		if _, err := a.Recruitment.AddContactMessage(ctx, f.Message()); err != nil {
			return err
		}
	}
	a.Log.Info("recruitment seeded", slog.Int("applications", c.applications), slog.Int("messages", c.messages))
	return nil
}

func seedClinic(ctx context.Context, a *app.App, f *seed.Faker, c counts) error {
	services, err := a.Clinic.SearchServices(ctx, "", "")
	if err != nil {
		return err
	}
	dates := a.Clinic.BookableDates()

	booked := 0
	if len(services) > 0 && len(dates) > 0 {
		for i := 0; i < c.bookings; i++ {
			req := f.Booking(services, dates)
			slots, err := a.Clinic.AvailableSlots(ctx, req.Date)
			if err != nil {
				return err
			}
			if len(slots) == 0 {
				continue
			}
			req.Time = f.Pick(slots)

			b, err := a.Clinic.BookAppointment(ctx, identity.Actor{}, req)
			if errors.Is(err, clinic.ErrSlotAlreadyBooked) {
				continue
			}
			if err != nil {
				return err
			}
			booked++

			// Leave roughly a third pending for the back office to work through.
			if i%3 != 0 {
				if _, err := a.Clinic.UpdateAppointmentStatus(ctx, identity.System, b.Appointment.ID, clinic.StatusConfirmed, ""); err != nil {
					return err
				}
			}
		}
	}

	for i := 0; i < c.testimonials; i++ {
		t, err := a.Clinic.SubmitTestimonial(ctx, f.Testimonial())
		if err != nil {
			return err
		}
		if i%2 == 0 {
			if _, err := a.Clinic.SetTestimonialApproval(ctx, identity.System, t.ID, true); err != nil {
				return err
			}
		}
	}
	a.Log.Info("clinic seeded", slog.Int("bookings", booked), slog.Int("testimonials", c.testimonials))
	return nil
}
