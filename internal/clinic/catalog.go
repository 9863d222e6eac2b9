package clinic

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/store"
)

// SearchServices is the public service catalogue query.
func (s *Service) SearchServices(ctx context.Context, keyword, category string) ([]MedicalService, error) {
	all, err := s.repos.Services.List(ctx)
	if err != nil {
		return nil, err
	}
	return SearchServices(all, keyword, category), nil
}

func (s *Service) ServiceCategories(ctx context.Context) ([]string, error) {
	all, err := s.repos.Services.List(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(all), nil
}

// GetService returns a service by id; inactive ones only to the back office.
func (s *Service) GetService(ctx context.Context, actor identity.Actor, id string) (MedicalService, error) {
	svc, err := s.repos.Services.Get(ctx, id)
	if err != nil {
		return MedicalService{}, err
	}
	if !svc.IsActive && !actor.Role.Can(identity.CapBackOffice) {
		return MedicalService{}, store.ErrNotFound
	}
	return svc, nil
}

func (s *Service) ListServices(ctx context.Context, actor identity.Actor) ([]MedicalService, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Services.List(ctx)
}

func (s *Service) CreateService(ctx context.Context, actor identity.Actor, in ServiceInput) (MedicalService, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return MedicalService{}, err
	}
	now := s.now().UTC()
	svc := MedicalService{
		ID:               uuid.NewString(),
		Name:             in.Name,
		Slug:             in.Slug,
		Category:         in.Category,
		Description:      in.Description,
		ShortDescription: in.ShortDescription,
		Price:            in.Price,
		Duration:         in.Duration,
		IsActive:         in.IsActive,
		FeaturedImage:    in.FeaturedImage,
		Icon:             in.Icon,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if svc.Slug == "" {
		svc.Slug = slugify(svc.Name)
	}
	if svc.Duration <= 0 {
		svc.Duration = defaultDuration
	}
	if err := s.repos.Services.Insert(ctx, svc); err != nil {
		return MedicalService{}, err
	}
	return svc, nil
}

func (s *Service) UpdateService(ctx context.Context, actor identity.Actor, id string, p ServicePatch) (MedicalService, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return MedicalService{}, err
	}
	now := s.now().UTC()
	return s.repos.Services.Update(ctx, id, func(svc *MedicalService) error {
		setString(&svc.Name, p.Name)
		setString(&svc.Slug, p.Slug)
		setString(&svc.Category, p.Category)
		setString(&svc.Description, p.Description)
		setString(&svc.ShortDescription, p.ShortDescription)
		setString(&svc.FeaturedImage, p.FeaturedImage)
		setString(&svc.Icon, p.Icon)
		if p.Price != nil {
			svc.Price = *p.Price
		}
		if p.Duration != nil {
			svc.Duration = *p.Duration
		}
		if p.IsActive != nil {
			svc.IsActive = *p.IsActive
		}
		svc.UpdatedAt = now
		return nil
	})
}

// DeleteService removes the service; booked appointments keep its name.
func (s *Service) DeleteService(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Services.Delete(ctx, id)
}

// ApprovedTestimonials is what the public site shows.
func (s *Service) ApprovedTestimonials(ctx context.Context) ([]Testimonial, error) {
	return s.repos.Testimonials.Find(ctx, func(t Testimonial) bool { return t.IsApproved })
}

// SubmitTestimonial stores a testimonial awaiting approval.
func (s *Service) SubmitTestimonial(ctx context.Context, in TestimonialInput) (Testimonial, error) {
	if in.Rating < 1 || in.Rating > 5 {
		return Testimonial{}, ErrInvalidRating
	}
	t := Testimonial{
		ID:          uuid.NewString(),
		PatientName: in.PatientName,
		Rating:      in.Rating,
		Content:     in.Content,
		Image:       in.Image,
		CreatedAt:   s.now().UTC(),
	}
	if err := s.repos.Testimonials.Insert(ctx, t); err != nil {
		return Testimonial{}, err
	}
	return t, nil
}

func (s *Service) ListTestimonials(ctx context.Context, actor identity.Actor) ([]Testimonial, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Testimonials.List(ctx)
}

func (s *Service) SetTestimonialApproval(ctx context.Context, actor identity.Actor, id string, approved bool) (Testimonial, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return Testimonial{}, err
	}
	return s.repos.Testimonials.Update(ctx, id, func(t *Testimonial) error {
		t.IsApproved = approved
		return nil
	})
}

func (s *Service) DeleteTestimonial(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Testimonials.Delete(ctx, id)
}

// ActiveTeam lists the team members shown on the public site.
func (s *Service) ActiveTeam(ctx context.Context) ([]TeamMember, error) {
	return s.repos.Team.Find(ctx, func(m TeamMember) bool { return m.IsActive })
}

func (s *Service) ListTeam(ctx context.Context, actor identity.Actor) ([]TeamMember, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return nil, err
	}
	return s.repos.Team.List(ctx)
}

func (s *Service) CreateTeamMember(ctx context.Context, actor identity.Actor, in TeamMemberInput) (TeamMember, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return TeamMember{}, err
	}
	m := TeamMember{
		ID:              uuid.NewString(),
		Name:            in.Name,
		Role:            in.Role,
		Department:      in.Department,
		Bio:             in.Bio,
		Qualifications:  nonNil(in.Qualifications),
		Specializations: nonNil(in.Specializations),
		Image:           in.Image,
		Email:           identity.NormalizeEmail(in.Email),
		Phone:           in.Phone,
		IsActive:        in.IsActive,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repos.Team.Insert(ctx, m); err != nil {
		return TeamMember{}, err
	}
	return m, nil
}

// UpdateTeamMember replaces the member's editable fields with in.
func (s *Service) UpdateTeamMember(ctx context.Context, actor identity.Actor, id string, in TeamMemberInput) (TeamMember, error) {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return TeamMember{}, err
	}
	return s.repos.Team.Update(ctx, id, func(m *TeamMember) error {
		m.Name = in.Name
		m.Role = in.Role
		m.Department = in.Department
		m.Bio = in.Bio
		m.Qualifications = nonNil(in.Qualifications)
		m.Specializations = nonNil(in.Specializations)
		m.Image = in.Image
		m.Email = identity.NormalizeEmail(in.Email)
		m.Phone = in.Phone
		m.IsActive = in.IsActive
		return nil
	})
}

func (s *Service) DeleteTeamMember(ctx context.Context, actor identity.Actor, id string) error {
	if err := actor.Require(identity.CapBackOffice); err != nil {
		return err
	}
	return s.repos.Team.Delete(ctx, id)
}

func slugify(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z') && !(r >= '0' && r <= '9')
	})
	return strings.Join(fields, "-")
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
