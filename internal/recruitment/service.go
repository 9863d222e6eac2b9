package recruitment

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/store"
)

var (
	ErrInvalidStatus = errors.New("invalid application status")
	ErrInvalidSalary = errors.New("salary minimum exceeds maximum")
)

type Service struct {
	repos Repositories
	log   *slog.Logger
	now   func() time.Time
}

func NewService(repos Repositories, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{repos: repos, log: log, now: time.Now}
}

// positions returns every position with its derived count.
func (s *Service) positions(ctx context.Context) ([]PositionView, error) {
	positions, err := s.repos.Positions.List(ctx)
	if err != nil {
		return nil, err
	}
	apps, err := s.repos.Applications.List(ctx)
	if err != nil {
		return nil, err
	}
	return withCounts(positions, apps), nil
}

// SearchJobs is the public job board query; only active positions match.
func (s *Service) SearchJobs(ctx context.Context, q JobQuery) ([]PositionView, error) {
	all, err := s.positions(ctx)
	if err != nil {
		return nil, err
	}
	return SearchPositions(all, q), nil
}

func (s *Service) JobFacets(ctx context.Context) (JobFacets, error) {
	all, err := s.positions(ctx)
	if err != nil {
		return JobFacets{}, err
	}
	return Facets(all), nil
}

// GetPosition returns a position by id. Inactive positions are visible to
// the back office only.
func (s *Service) GetPosition(ctx context.Context, actor identity.Actor, id string) (PositionView, error) {
	all, err := s.positions(ctx)
	if err != nil {
		return PositionView{}, err
	}
	for _, p := range all {
		if p.ID != id {
			continue
		}
		if !p.IsActive && !actor.Role.Can(identity.CapBackOffice) {
			return PositionView{}, store.ErrNotFound
		}
		return p, nil
	}
	return PositionView{}, store.ErrNotFound
}

func (s *Service) ListPositions(ctx context.Context, actor identity.Actor) ([]PositionView, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.positions(ctx)
}

func (s *Service) CreatePosition(ctx context.Context, actor identity.Actor, in PositionInput) (PositionView, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return PositionView{}, err
	}
	if in.Salary.Max > 0 && in.Salary.Min > in.Salary.Max {
		return PositionView{}, ErrInvalidSalary
	}
	now := s.now().UTC()
	p := Position{
		ID:                uuid.NewString(),
		Title:             in.Title,
		Slug:              in.Slug,
		Department:        in.Department,
		Location:          in.Location,
		JobType:           in.JobType,
		ExperienceLevel:   in.ExperienceLevel,
		Salary:            in.Salary,
		Description:       in.Description,
		Requirements:      nonNil(in.Requirements),
		Benefits:          nonNil(in.Benefits),
		IsActive:          in.IsActive,
		FeaturedImage:     in.FeaturedImage,
		PriorApplications: in.PriorApplications,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Title)
	}
	if p.Salary.Currency == "" {
		p.Salary.Currency = "USD"
	}
	if err := s.repos.Positions.Insert(ctx, p); err != nil {
		return PositionView{}, err
	}
	s.log.Info("position created", slog.String("position_id", p.ID), slog.String("by", actor.UserID))
	return PositionView{Position: p, ApplicationsCount: p.PriorApplications}, nil
}

func (s *Service) UpdatePosition(ctx context.Context, actor identity.Actor, id string, patch PositionPatch) (PositionView, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return PositionView{}, err
	}
	now := s.now().UTC()
	_, err := s.repos.Positions.Update(ctx, id, func(p *Position) error {
		setString(&p.Title, patch.Title)
		setString(&p.Slug, patch.Slug)
		setString(&p.Department, patch.Department)
		setString(&p.Location, patch.Location)
		setString(&p.Description, patch.Description)
		setString(&p.FeaturedImage, patch.FeaturedImage)
		if patch.JobType != nil {
			p.JobType = *patch.JobType
		}
		if patch.ExperienceLevel != nil {
			p.ExperienceLevel = *patch.ExperienceLevel
		}
		if patch.Salary != nil {
			if patch.Salary.Max > 0 && patch.Salary.Min > patch.Salary.Max {
				return ErrInvalidSalary
			}
			p.Salary = *patch.Salary
		}
		if patch.Requirements != nil {
			p.Requirements = patch.Requirements
		}
		if patch.Benefits != nil {
			p.Benefits = patch.Benefits
		}
		if patch.IsActive != nil {
			p.IsActive = *patch.IsActive
		}
		p.UpdatedAt = now
		return nil
	})
	if err != nil {
		return PositionView{}, err
	}
	return s.GetPosition(ctx, actor, id)
}

// DeletePosition removes the position; its applications are kept.
func (s *Service) DeletePosition(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Positions.Delete(ctx, id)
}

// AddJobApplication records a submission with status submitted. When the
// position exists its title is copied onto the application; a dangling
// position id still creates the record.
func (s *Service) AddJobApplication(ctx context.Context, in ApplicationInput) (Application, error) {
	title := in.JobTitle
	p, err := s.repos.Positions.Get(ctx, in.PositionID)
	switch {
	case err == nil:
		title = p.Title
	case !errors.Is(err, store.ErrNotFound):
		return Application{}, err
	}

	now := s.now().UTC()
	a := Application{
		ID:                uuid.NewString(),
		PositionID:        in.PositionID,
		JobTitle:          title,
		ApplicantName:     in.ApplicantName,
		ApplicantEmail:    identity.NormalizeEmail(in.ApplicantEmail),
		ApplicantPhone:    in.ApplicantPhone,
		Resume:            in.Resume,
		CoverLetter:       in.CoverLetter,
		Qualifications:    in.Qualifications,
		YearsOfExperience: in.YearsOfExperience,
		Status:            StatusSubmitted,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repos.Applications.Insert(ctx, a); err != nil {
		return Application{}, err
	}
	s.log.Info("application submitted",
		slog.String("application_id", a.ID),
		slog.String("position_id", a.PositionID),
	)
	return a, nil
}

// ListApplications returns all applications, optionally for one position.
func (s *Service) ListApplications(ctx context.Context, actor identity.Actor, positionID string, status ApplicationStatus) ([]Application, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Applications.Find(ctx, func(a Application) bool {
		return (positionID == "" || a.PositionID == positionID) && (status == "" || a.Status == status)
	})
}

func (s *Service) GetApplication(ctx context.Context, actor identity.Actor, id string) (Application, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Application{}, err
	}
	return s.repos.Applications.Get(ctx, id)
}

func (s *Service) UpdateApplication(ctx context.Context, actor identity.Actor, id string, patch ApplicationPatch) (Application, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Application{}, err
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return Application{}, ErrInvalidStatus
	}
	now := s.now().UTC()
	return s.repos.Applications.Update(ctx, id, func(a *Application) error {
		if patch.Status != nil {
			a.Status = *patch.Status
		}
		setString(&a.Notes, patch.Notes)
		a.UpdatedAt = now
		return nil
	})
}

// DeleteApplication removes the record; the position's derived count drops with it.
func (s *Service) DeleteApplication(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Applications.Delete(ctx, id)
}

// MyApplications is the job-seeker portal: the actor's applications matched
// by email, filtered by term over title or status.
func (s *Service) MyApplications(ctx context.Context, actor identity.Actor, term string) ([]Application, SeekerStats, error) {
	if !actor.Authenticated() {
		return nil, SeekerStats{}, identity.ErrUnauthenticated
	}
	email := identity.NormalizeEmail(actor.Email)
	mine, err := s.repos.Applications.Find(ctx, func(a Application) bool {
		return identity.NormalizeEmail(a.ApplicantEmail) == email
	})
	if err != nil {
		return nil, SeekerStats{}, err
	}
	return SearchApplications(mine, term), SummarizeApplications(mine), nil
}

func (s *Service) AddContactMessage(ctx context.Context, in MessageInput) (ContactMessage, error) {
	m := ContactMessage{
		ID:        uuid.NewString(),
		Name:      in.Name,
		Email:     identity.NormalizeEmail(in.Email),
		Phone:     in.Phone,
		Subject:   in.Subject,
		Message:   in.Message,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repos.Messages.Insert(ctx, m); err != nil {
		return ContactMessage{}, err
	}
	return m, nil
}

func (s *Service) ListMessages(ctx context.Context, actor identity.Actor, unreadOnly bool) ([]ContactMessage, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Messages.Find(ctx, func(m ContactMessage) bool {
		return !unreadOnly || !m.IsRead
	})
}

func (s *Service) MarkMessageRead(ctx context.Context, actor identity.Actor, id string) (ContactMessage, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return ContactMessage{}, err
	}
	return s.repos.Messages.Update(ctx, id, func(m *ContactMessage) error {
		m.IsRead = true
		return nil
	})
}

func (s *Service) DeleteMessage(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Messages.Delete(ctx, id)
}

func (s *Service) Settings(ctx context.Context) (Settings, error) {
	return s.repos.Settings.Get(ctx)
}

func (s *Service) UpdateSettings(ctx context.Context, actor identity.Actor, patch SettingsPatch) (Settings, error) {
	if err := actor.Require(identity.CapManageSettings); err != nil {
		return Settings{}, err
	}
	return s.repos.Settings.Update(ctx, func(st *Settings) error {
		setString(&st.SiteName, patch.SiteName)
		setString(&st.Tagline, patch.Tagline)
		setString(&st.Description, patch.Description)
		setString(&st.Phone, patch.Phone)
		setString(&st.Email, patch.Email)
		setString(&st.Address, patch.Address)
		setString(&st.OperatingHours, patch.OperatingHours)
		setString(&st.EmergencyContact, patch.EmergencyContact)
		if patch.SocialLinks != nil {
			st.SocialLinks = *patch.SocialLinks
		}
		return nil
	})
}

func (s *Service) Stats(ctx context.Context, actor identity.Actor) (Stats, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Stats{}, err
	}
	positions, err := s.repos.Positions.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	apps, err := s.repos.Applications.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	msgs, err := s.repos.Messages.List(ctx)
	if err != nil {
		return Stats{}, err
	}

	st := Stats{TotalApplications: len(apps), ByStatus: map[ApplicationStatus]int{}}
	for _, p := range positions {
		if p.IsActive {
			st.ActivePositions++
		}
	}
	for _, a := range apps {
		st.ByStatus[a.Status]++
	}
	for _, m := range msgs {
		if !m.IsRead {
			st.UnreadMessages++
		}
	}
	return st, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
