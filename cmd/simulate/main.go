// Command simulate drives concurrent booking traffic against a running API
// and reports outcomes and latencies.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/logger"
	"github.com/hackgods/vortex-care/internal/seed"
)

type SimConfig struct {
	APIBaseURL    string
	Duration      time.Duration
	Workers       int
	BookingRatio  float64
	ConfirmRatio  float64
	ReadRatio     float64
	StaffEmail    string
	StaffPassword string
}

// DataPool is what workers pick from: catalogue data loaded once, and the
// appointments they created.
type DataPool struct {
	Services []clinic.MedicalService
	Dates    []string

	mu           sync.RWMutex
	appointments []string
}

func (dp *DataPool) AddAppointment(id string) {
	dp.mu.Lock()
	defer dp.mu.Unlock()
	dp.appointments = append(dp.appointments, id)
}

func (dp *DataPool) RandomAppointment(rng *rand.Rand) (string, bool) {
	dp.mu.RLock()
	defer dp.mu.RUnlock()
	if len(dp.appointments) == 0 {
		return "", false
	}
	return dp.appointments[rng.Intn(len(dp.appointments))], true
}

type Simulator struct {
	config  SimConfig
	pool    *DataPool
	client  *http.Client
	token   string
	metrics Metrics
}

func main() {
	log := logger.SetupDefault(os.Stdout, getEnv("LOG_LEVEL", "info"))
	log.Info("simulator starting")

	cfg := loadConfig()
	if err := validateConfig(cfg); err != nil {
		log.Error("invalid config", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("config",
		slog.Duration("duration", cfg.Duration),
		slog.Int("workers", cfg.Workers),
		slog.Float64("booking", cfg.BookingRatio),
		slog.Float64("confirm", cfg.ConfirmRatio),
		slog.Float64("read", cfg.ReadRatio),
	)

	sim := &Simulator{
		config: cfg,
		pool:   &DataPool{},
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := sim.load(ctx); err != nil {
		log.Error("load data pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	log.Info("loaded", slog.Int("services", len(sim.pool.Services)), slog.Int("dates", len(sim.pool.Dates)))

	sim.Run()
	sim.PrintReport()
}

func loadConfig() SimConfig {
	cfg := SimConfig{
		APIBaseURL:    getEnv("SIM_API_BASE_URL", "http://localhost:8080"),
		Duration:      getDuration("SIM_DURATION", 30*time.Second),
		Workers:       getInt("SIM_WORKERS", 10),
		BookingRatio:  getFloat("SIM_BOOKING_RATIO", 0.5),
		ConfirmRatio:  getFloat("SIM_CONFIRM_RATIO", 0.2),
		ReadRatio:     getFloat("SIM_READ_RATIO", 0.3),
		StaffEmail:    getEnv("SIM_STAFF_EMAIL", "staff@vortexcare.com"),
		StaffPassword: getEnv("SIM_STAFF_PASSWORD", "Staff@123"),
	}

	total := cfg.BookingRatio + cfg.ConfirmRatio + cfg.ReadRatio
	if total > 0 {
		cfg.BookingRatio /= total
		cfg.ConfirmRatio /= total
		cfg.ReadRatio /= total
	}
	return cfg
}

func validateConfig(cfg SimConfig) error {
	if cfg.Workers <= 0 {
		return fmt.Errorf("SIM_WORKERS must be > 0")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("SIM_DURATION must be > 0")
	}
	return nil
}

// load fetches the service catalogue and bookable dates, and logs in as staff
// for confirmations.
func (s *Simulator) load(ctx context.Context) error {
	if err := s.getJSON(ctx, "/services", &s.pool.Services); err != nil {
		return fmt.Errorf("load services: %w", err)
	}
	if err := s.getJSON(ctx, "/appointments/dates", &s.pool.Dates); err != nil {
		return fmt.Errorf("load dates: %w", err)
	}
	if len(s.pool.Services) == 0 || len(s.pool.Dates) == 0 {
		return fmt.Errorf("no services or bookable dates")
	}

	var res struct {
		Token string `json:"token"`
	}
	status, err := s.postJSON(ctx, "/auth/login", "", map[string]string{
		"email": s.config.StaffEmail, "password": s.config.StaffPassword,
	}, &res)
	if err != nil || status != http.StatusOK {
		return fmt.Errorf("staff login failed: status=%d err=%v", status, err)
	}
	s.token = res.Token
	return nil
}

func (s *Simulator) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.config.Duration)
	defer cancel()

	slog.Info("starting simulation", slog.Duration("duration", s.config.Duration), slog.Int("workers", s.config.Workers))

	var wg sync.WaitGroup
	for i := 0; i < s.config.Workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			s.worker(ctx, workerID)
		}(i)
	}
	wg.Wait()
	slog.Info("simulation complete")
}

func (s *Simulator) worker(ctx context.Context, workerID int) {
	seedValue := time.Now().UnixNano() + int64(workerID)
	rng := rand.New(rand.NewSource(seedValue))
	faker := seed.NewFaker(uint64(seedValue))

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		r := rng.Float64()
		switch {
		case r < s.config.BookingRatio:
			s.doBooking(ctx, faker)
		case r < s.config.BookingRatio+s.config.ConfirmRatio:
			s.doConfirm(ctx, rng)
		case rng.Intn(2) == 0:
			s.doSlots(ctx, rng)
		default:
			s.doJobs(ctx)
		}
	}
}

// doBooking requests a fixed slot list entry without checking availability
// first, so concurrent workers collide and exercise the conflict path.
func (s *Simulator) doBooking(ctx context.Context, faker *seed.Faker) {
	req := faker.Booking(s.pool.Services, s.pool.Dates)
	req.Time = faker.Pick(clinic.TimeSlots)

	body := map[string]string{
		"firstName":             req.FirstName,
		"lastName":              req.LastName,
		"email":                 req.Email,
		"phone":                 req.Phone,
		"dateOfBirth":           req.DateOfBirth,
		"gender":                string(req.Gender),
		"serviceId":             req.ServiceID,
		"appointmentDate":       req.Date,
		"appointmentTime":       req.Time,
		"reason":                req.Reason,
		"insuranceProvider":     req.InsuranceProvider,
		"insurancePolicyNumber": req.InsurancePolicyNumber,
	}

	var res clinic.Booking
	start := time.Now()
	status, err := s.postJSON(ctx, "/appointments", "", body, &res)
	latency := time.Since(start)

	success := err == nil && status == http.StatusCreated
	if success {
		s.pool.AddAppointment(res.Appointment.ID)
	}
	s.metrics.Booking.Record(latency, success, status == http.StatusConflict)
}

func (s *Simulator) doConfirm(ctx context.Context, rng *rand.Rand) {
	id, ok := s.pool.RandomAppointment(rng)
	if !ok {
		return
	}
	start := time.Now()
	status, err := s.postJSON(ctx, "/admin/appointments/"+id+"/status", s.token,
		map[string]string{"status": string(clinic.StatusConfirmed)}, nil)
	s.metrics.Confirm.Record(time.Since(start), err == nil && status == http.StatusOK, status == http.StatusConflict)
}

func (s *Simulator) doSlots(ctx context.Context, rng *rand.Rand) {
	date := s.pool.Dates[rng.Intn(len(s.pool.Dates))]
	var out any
	start := time.Now()
	err := s.getJSON(ctx, "/appointments/slots?date="+date, &out)
	s.metrics.Slots.Record(time.Since(start), err == nil, false)
}

func (s *Simulator) doJobs(ctx context.Context) {
	var out any
	start := time.Now()
	err := s.getJSON(ctx, "/jobs", &out)
	s.metrics.Jobs.Record(time.Since(start), err == nil, false)
}

func (s *Simulator) getJSON(ctx context.Context, path string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.config.APIBaseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}

func (s *Simulator) postJSON(ctx context.Context, path, token string, body, dst any) (int, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return 0, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.APIBaseURL+path, bytes.NewReader(raw))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	if dst != nil && resp.StatusCode < 300 {
		if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
			return resp.StatusCode, err
		}
	}
	return resp.StatusCode, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func getInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}
