package api

import (
	"time"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/identity"
	"github.com/hackgods/vortex-care/internal/recruitment"
)

// Auth

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	FirstName       string `json:"firstName" validate:"required,min=2"`
	LastName        string `json:"lastName" validate:"required,min=2"`
	Email           string `json:"email" validate:"required,email"`
	Phone           string `json:"phone" validate:"required,min=10"`
	Password        string `json:"password" validate:"required,password"`
	ConfirmPassword string `json:"confirmPassword" validate:"required,eqfield=Password"`
}

type ProfileRequest struct {
	FirstName *string `json:"firstName" validate:"omitempty,min=2"`
	LastName  *string `json:"lastName" validate:"omitempty,min=2"`
	Phone     *string `json:"phone" validate:"omitempty,min=10"`
	Avatar    *string `json:"avatar" validate:"omitempty,url"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,password"`
}

// UserResponse is a roster entry without its password hash.
type UserResponse struct {
	ID              string        `json:"id"`
	Email           string        `json:"email"`
	FirstName       string        `json:"firstName"`
	LastName        string        `json:"lastName"`
	Phone           string        `json:"phone"`
	Role            identity.Role `json:"role"`
	Department      string        `json:"department,omitempty"`
	Specialization  string        `json:"specialization,omitempty"`
	Avatar          string        `json:"avatar,omitempty"`
	IsActive        bool          `json:"isActive"`
	IsEmailVerified bool          `json:"isEmailVerified"`
	LastLogin       *time.Time    `json:"lastLogin,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func toUserResponse(u identity.User) UserResponse {
	return UserResponse{
		ID:              u.ID,
		Email:           u.Email,
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Phone:           u.Phone,
		Role:            u.Role,
		Department:      u.Department,
		Specialization:  u.Specialization,
		Avatar:          u.Avatar,
		IsActive:        u.IsActive,
		IsEmailVerified: u.IsEmailVerified,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toUserResponses(users []identity.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i, u := range users {
		out[i] = toUserResponse(u)
	}
	return out
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

// Admin users

type CreateUserRequest struct {
	Email          string `json:"email" validate:"required,email"`
	Password       string `json:"password" validate:"required,password"`
	FirstName      string `json:"firstName" validate:"required,min=2"`
	LastName       string `json:"lastName" validate:"required,min=2"`
	Phone          string `json:"phone" validate:"omitempty,min=10"`
	Role           string `json:"role" validate:"required,oneof=super_admin admin staff doctor patient"`
	Department     string `json:"department"`
	Specialization string `json:"specialization"`
	IsActive       *bool  `json:"isActive"`
}

type UpdateUserRequest struct {
	Email          *string `json:"email" validate:"omitempty,email"`
	FirstName      *string `json:"firstName" validate:"omitempty,min=2"`
	LastName       *string `json:"lastName" validate:"omitempty,min=2"`
	Phone          *string `json:"phone" validate:"omitempty,min=10"`
	Role           *string `json:"role" validate:"omitempty,oneof=super_admin admin staff doctor patient"`
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	IsActive       *bool   `json:"isActive"`
	Password       *string `json:"password" validate:"omitempty,password"`
}

func (req UpdateUserRequest) patch() identity.UserPatch {
	p := identity.UserPatch{
		Email:          req.Email,
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Phone:          req.Phone,
		Department:     req.Department,
		Specialization: req.Specialization,
		IsActive:       req.IsActive,
		Password:       req.Password,
	}
	if req.Role != nil {
		role := identity.Role(*req.Role)
		p.Role = &role
	}
	return p
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,password"`
}

// Recruitment

type ApplicationRequest struct {
	ApplicantName     string `json:"applicantName" validate:"required,min=2"`
	ApplicantEmail    string `json:"applicantEmail" validate:"required,email"`
	ApplicantPhone    string `json:"applicantPhone" validate:"required,min=10"`
	YearsOfExperience int    `json:"yearsOfExperience" validate:"min=0,max=70"`
	Qualifications    string `json:"qualifications" validate:"required,min=10"`
	CoverLetter       string `json:"coverLetter" validate:"required,min=50"`
	Resume            string `json:"resume" validate:"required,min=10"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required,min=10"`
	Subject string `json:"subject" validate:"required,min=5"`
	Message string `json:"message" validate:"required,min=20"`
}

type SalaryRequest struct {
	Min      int    `json:"min" validate:"min=0"`
	Max      int    `json:"max" validate:"min=0"`
	Currency string `json:"currency" validate:"omitempty,len=3"`
}

type PositionRequest struct {
	Title             string        `json:"title" validate:"required,min=2"`
	Slug              string        `json:"slug"`
	Department        string        `json:"department" validate:"required"`
	Location          string        `json:"location" validate:"required"`
	JobType           string        `json:"jobType" validate:"required,oneof=full-time part-time contract temporary"`
	ExperienceLevel   string        `json:"experienceLevel" validate:"required,oneof=entry mid senior executive"`
	Salary            SalaryRequest `json:"salary"`
	Description       string        `json:"description" validate:"required"`
	Requirements      []string      `json:"requirements"`
	Benefits          []string      `json:"benefits"`
	IsActive          *bool         `json:"isActive"`
	FeaturedImage     string        `json:"featuredImage" validate:"omitempty,url"`
	PriorApplications int           `json:"priorApplications" validate:"min=0"`
}

func (req PositionRequest) input() recruitment.PositionInput {
	return recruitment.PositionInput{
		Title:           req.Title,
		Slug:            req.Slug,
		Department:      req.Department,
		Location:        req.Location,
		JobType:         recruitment.JobType(req.JobType),
		ExperienceLevel: recruitment.ExperienceLevel(req.ExperienceLevel),
		Salary: recruitment.Salary{
			Min: req.Salary.Min, Max: req.Salary.Max, Currency: req.Salary.Currency,
		},
		Description:       req.Description,
		Requirements:      req.Requirements,
		Benefits:          req.Benefits,
		IsActive:          req.IsActive == nil || *req.IsActive,
		FeaturedImage:     req.FeaturedImage,
		PriorApplications: req.PriorApplications,
	}
}

type PositionPatchRequest struct {
	Title           *string        `json:"title" validate:"omitempty,min=2"`
	Slug            *string        `json:"slug"`
	Department      *string        `json:"department"`
	Location        *string        `json:"location"`
	JobType         *string        `json:"jobType" validate:"omitempty,oneof=full-time part-time contract temporary"`
	ExperienceLevel *string        `json:"experienceLevel" validate:"omitempty,oneof=entry mid senior executive"`
	Salary          *SalaryRequest `json:"salary"`
	Description     *string        `json:"description"`
	Requirements    []string       `json:"requirements"`
	Benefits        []string       `json:"benefits"`
	IsActive        *bool          `json:"isActive"`
	FeaturedImage   *string        `json:"featuredImage" validate:"omitempty,url"`
}

func (req PositionPatchRequest) patch() recruitment.PositionPatch {
	p := recruitment.PositionPatch{
		Title:         req.Title,
		Slug:          req.Slug,
		Department:    req.Department,
		Location:      req.Location,
		Description:   req.Description,
		Requirements:  req.Requirements,
		Benefits:      req.Benefits,
		IsActive:      req.IsActive,
		FeaturedImage: req.FeaturedImage,
	}
	if req.JobType != nil {
		jt := recruitment.JobType(*req.JobType)
		p.JobType = &jt
	}
	if req.ExperienceLevel != nil {
		lvl := recruitment.ExperienceLevel(*req.ExperienceLevel)
		p.ExperienceLevel = &lvl
	}
	if req.Salary != nil {
		p.Salary = &recruitment.Salary{Min: req.Salary.Min, Max: req.Salary.Max, Currency: req.Salary.Currency}
	}
	return p
}

type ApplicationPatchRequest struct {
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

type SocialLinksRequest struct {
	Facebook  string `json:"facebook" validate:"omitempty,url"`
	Twitter   string `json:"twitter" validate:"omitempty,url"`
	LinkedIn  string `json:"linkedin" validate:"omitempty,url"`
	Instagram string `json:"instagram" validate:"omitempty,url"`
}

type SettingsRequest struct {
	SiteName         *string             `json:"siteName" validate:"omitempty,min=2"`
	Tagline          *string             `json:"tagline"`
	Description      *string             `json:"description"`
	Phone            *string             `json:"phone"`
	Email            *string             `json:"email" validate:"omitempty,email"`
	Address          *string             `json:"address"`
	OperatingHours   *string             `json:"operatingHours"`
	EmergencyContact *string             `json:"emergencyContact"`
	SocialLinks      *SocialLinksRequest `json:"socialLinks"`
}

func (req SettingsRequest) patch() recruitment.SettingsPatch {
	p := recruitment.SettingsPatch{
		SiteName:         req.SiteName,
		Tagline:          req.Tagline,
		Description:      req.Description,
		Phone:            req.Phone,
		Email:            req.Email,
		Address:          req.Address,
		OperatingHours:   req.OperatingHours,
		EmergencyContact: req.EmergencyContact,
	}
	if req.SocialLinks != nil {
		p.SocialLinks = &recruitment.SocialLinks{
			Facebook:  req.SocialLinks.Facebook,
			Twitter:   req.SocialLinks.Twitter,
			LinkedIn:  req.SocialLinks.LinkedIn,
			Instagram: req.SocialLinks.Instagram,
		}
	}
	return p
}

type SeekerResponse struct {
	Applications []recruitment.Application `json:"applications"`
	Stats        recruitment.SeekerStats   `json:"stats"`
}

// Clinic

type BookingRequest struct {
	FirstName             string `json:"firstName" validate:"required,min=2"`
	LastName              string `json:"lastName" validate:"required,min=2"`
	Email                 string `json:"email" validate:"required,email"`
	Phone                 string `json:"phone" validate:"required,min=10"`
	DateOfBirth           string `json:"dateOfBirth" validate:"required,date"`
	Gender                string `json:"gender" validate:"required,oneof=male female other prefer_not_to_say"`
	ServiceID             string `json:"serviceId" validate:"required"`
	AppointmentDate       string `json:"appointmentDate" validate:"required,date"`
	AppointmentTime       string `json:"appointmentTime" validate:"required"`
	Reason                string `json:"reason" validate:"required,min=10"`
	MedicalHistory        string `json:"medicalHistory"`
	InsuranceProvider     string `json:"insuranceProvider"`
	InsurancePolicyNumber string `json:"insurancePolicyNumber"`
}

func (req BookingRequest) input() clinic.BookingRequest {
	return clinic.BookingRequest{
		FirstName:             req.FirstName,
		LastName:              req.LastName,
		Email:                 req.Email,
		Phone:                 req.Phone,
		DateOfBirth:           req.DateOfBirth,
		Gender:                clinic.Gender(req.Gender),
		ServiceID:             req.ServiceID,
		Date:                  req.AppointmentDate,
		Time:                  req.AppointmentTime,
		Reason:                req.Reason,
		InsuranceProvider:     req.InsuranceProvider,
		InsurancePolicyNumber: req.InsurancePolicyNumber,
		MedicalHistory:        req.MedicalHistory,
	}
}

type SlotsResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
	Reason string `json:"reason"`
}

type CancelRequest struct {
	Reason string `json:"reason"`
}

type AppointmentPatchRequest struct {
	ProviderID   *string `json:"providerId"`
	ProviderName *string `json:"providerName"`
	Notes        *string `json:"notes"`
}

type ServiceRequest struct {
	Name             string  `json:"name" validate:"required,min=2"`
	Slug             string  `json:"slug"`
	Category         string  `json:"category" validate:"required"`
	Description      string  `json:"description" validate:"required"`
	ShortDescription string  `json:"shortDescription"`
	Price            float64 `json:"price" validate:"min=0"`
	Duration         int     `json:"duration" validate:"min=0,max=480"`
	IsActive         *bool   `json:"isActive"`
	FeaturedImage    string  `json:"featuredImage" validate:"omitempty,url"`
	Icon             string  `json:"icon"`
}

func (req ServiceRequest) input() clinic.ServiceInput {
	return clinic.ServiceInput{
		Name:             req.Name,
		Slug:             req.Slug,
		Category:         req.Category,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		Duration:         req.Duration,
		IsActive:         req.IsActive == nil || *req.IsActive,
		FeaturedImage:    req.FeaturedImage,
		Icon:             req.Icon,
	}
}

type ServicePatchRequest struct {
	Name             *string  `json:"name" validate:"omitempty,min=2"`
	Slug             *string  `json:"slug"`
	Category         *string  `json:"category"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"shortDescription"`
	Price            *float64 `json:"price" validate:"omitempty,min=0"`
	Duration         *int     `json:"duration" validate:"omitempty,min=1,max=480"`
	IsActive         *bool    `json:"isActive"`
	FeaturedImage    *string  `json:"featuredImage" validate:"omitempty,url"`
	Icon             *string  `json:"icon"`
}

func (req ServicePatchRequest) patch() clinic.ServicePatch {
	return clinic.ServicePatch{
		Name:             req.Name,
		Slug:             req.Slug,
		Category:         req.Category,
		Description:      req.Description,
		ShortDescription: req.ShortDescription,
		Price:            req.Price,
		Duration:         req.Duration,
		IsActive:         req.IsActive,
		FeaturedImage:    req.FeaturedImage,
		Icon:             req.Icon,
	}
}

type PatientPatchRequest struct {
	FirstName          *string                  `json:"firstName" validate:"omitempty,min=2"`
	LastName           *string                  `json:"lastName" validate:"omitempty,min=2"`
	Phone              *string                  `json:"phone" validate:"omitempty,min=10"`
	DateOfBirth        *string                  `json:"dateOfBirth" validate:"omitempty,date"`
	Gender             *string                  `json:"gender" validate:"omitempty,oneof=male female other prefer_not_to_say"`
	Address            *clinic.Address          `json:"address"`
	EmergencyContact   *clinic.EmergencyContact `json:"emergencyContact"`
	Insurance          *clinic.Insurance        `json:"insuranceInfo"`
	MedicalHistory     *string                  `json:"medicalHistory"`
	Allergies          []string                 `json:"allergies"`
	CurrentMedications []string                 `json:"currentMedications"`
	BloodType          *string                  `json:"bloodType" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
}

func (req PatientPatchRequest) patch() clinic.PatientPatch {
	p := clinic.PatientPatch{
		FirstName:          req.FirstName,
		LastName:           req.LastName,
		Phone:              req.Phone,
		DateOfBirth:        req.DateOfBirth,
		Address:            req.Address,
		EmergencyContact:   req.EmergencyContact,
		Insurance:          req.Insurance,
		MedicalHistory:     req.MedicalHistory,
		Allergies:          req.Allergies,
		CurrentMedications: req.CurrentMedications,
		BloodType:          req.BloodType,
	}
	if req.Gender != nil {
		g := clinic.Gender(*req.Gender)
		p.Gender = &g
	}
	return p
}

type TestimonialRequest struct {
	PatientName string `json:"patientName" validate:"required,min=2"`
	Rating      int    `json:"rating" validate:"required,min=1,max=5"`
	Content     string `json:"content" validate:"required,min=10"`
	Image       string `json:"image" validate:"omitempty,url"`
}

type ApprovalRequest struct {
	Approved bool `json:"approved"`
}

type TeamMemberRequest struct {
	Name            string   `json:"name" validate:"required,min=2"`
	Role            string   `json:"role" validate:"required"`
	Department      string   `json:"department" validate:"required"`
	Bio             string   `json:"bio"`
	Qualifications  []string `json:"qualifications"`
	Specializations []string `json:"specializations"`
	Image           string   `json:"image" validate:"omitempty,url"`
	Email           string   `json:"email" validate:"omitempty,email"`
	Phone           string   `json:"phone"`
	IsActive        *bool    `json:"isActive"`
}

func (req TeamMemberRequest) input() clinic.TeamMemberInput {
	return clinic.TeamMemberInput{
		Name:            req.Name,
		Role:            req.Role,
		Department:      req.Department,
		Bio:             req.Bio,
		Qualifications:  req.Qualifications,
		Specializations: req.Specializations,
		Image:           req.Image,
		Email:           req.Email,
		Phone:           req.Phone,
		IsActive:        req.IsActive == nil || *req.IsActive,
	}
}

// StatsResponse is the back-office dashboard.
type StatsResponse struct {
	Recruitment recruitment.Stats     `json:"recruitment"`
	Clinic      clinic.Stats          `json:"clinic"`
	UsersByRole map[identity.Role]int `json:"usersByRole"`
}
