package clinic

import (
	"strings"
	"time"
)

type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCompleted AppointmentStatus = "completed"
	StatusCancelled AppointmentStatus = "cancelled"
	StatusNoShow    AppointmentStatus = "no_show"
)

// transitions lists the statuses each status may move to.
var transitions = map[AppointmentStatus][]AppointmentStatus{
	StatusPending:   {StatusConfirmed, StatusCancelled, StatusNoShow},
	StatusConfirmed: {StatusCompleted, StatusCancelled, StatusNoShow},
}

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

func (s AppointmentStatus) CanMoveTo(next AppointmentStatus) bool {
	for _, t := range transitions[s] {
		if t == next {
			return true
		}
	}
	return false
}

// HoldsSlot reports whether an appointment in this status blocks its time slot.
func (s AppointmentStatus) HoldsSlot() bool { return s != StatusCancelled }

type Gender string

const (
	GenderMale           Gender = "male"
	GenderFemale         Gender = "female"
	GenderOther          Gender = "other"
	GenderPreferNotToSay Gender = "prefer_not_to_say"
)

type MedicalService struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Slug             string    `json:"slug"`
	Category         string    `json:"category"`
	Description      string    `json:"description"`
	ShortDescription string    `json:"shortDescription"`
	Price            float64   `json:"price"`
	Duration         int       `json:"duration"` // minutes
	IsActive         bool      `json:"isActive"`
	FeaturedImage    string    `json:"featuredImage,omitempty"`
	Icon             string    `json:"icon,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (m MedicalService) EntityID() string { return m.ID }

type Appointment struct {
	ID                 string            `json:"id"`
	PatientID          string            `json:"patientId"`
	PatientName        string            `json:"patientName"`
	PatientEmail       string            `json:"patientEmail"`
	PatientPhone       string            `json:"patientPhone"`
	ProviderID         string            `json:"providerId,omitempty"`
	ProviderName       string            `json:"providerName,omitempty"`
	ServiceID          string            `json:"serviceId"`
	ServiceName        string            `json:"serviceName"`
	Date               string            `json:"appointmentDate"` // YYYY-MM-DD
	Time               string            `json:"appointmentTime"` // HH:MM
	Duration           int               `json:"duration"`
	Status             AppointmentStatus `json:"status"`
	Reason             string            `json:"reason"`
	Notes              string            `json:"notes,omitempty"`
	CancellationReason string            `json:"cancellationReason,omitempty"`
	ReminderSent       bool              `json:"reminderSent"`
	CreatedAt          time.Time         `json:"createdAt"`
	UpdatedAt          time.Time         `json:"updatedAt"`
}

func (a Appointment) EntityID() string { return a.ID }

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Country string `json:"country"`
}

type EmergencyContact struct {
	Name         string `json:"name"`
	Relationship string `json:"relationship"`
	Phone        string `json:"phone"`
}

type Insurance struct {
	Provider     string `json:"provider"`
	PolicyNumber string `json:"policyNumber"`
	GroupNumber  string `json:"groupNumber"`
}

type Patient struct {
	ID                 string           `json:"id"`
	UserID             string           `json:"userId,omitempty"`
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	Email              string           `json:"email"`
	Phone              string           `json:"phone"`
	DateOfBirth        string           `json:"dateOfBirth"`
	Gender             Gender           `json:"gender"`
	Address            Address          `json:"address"`
	EmergencyContact   EmergencyContact `json:"emergencyContact"`
	Insurance          Insurance        `json:"insuranceInfo"`
	MedicalHistory     string           `json:"medicalHistory,omitempty"`
	Allergies          []string         `json:"allergies"`
	CurrentMedications []string         `json:"currentMedications"`
	BloodType          string           `json:"bloodType,omitempty"`
	CreatedAt          time.Time        `json:"createdAt"`
	UpdatedAt          time.Time        `json:"updatedAt"`
}

func (p Patient) EntityID() string { return p.ID }

func (p Patient) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

type Testimonial struct {
	ID          string    `json:"id"`
	PatientName string    `json:"patientName"`
	Rating      int       `json:"rating"`
	Content     string    `json:"content"`
	Image       string    `json:"image,omitempty"`
	IsApproved  bool      `json:"isApproved"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (t Testimonial) EntityID() string { return t.ID }

type TeamMember struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	Department      string    `json:"department"`
	Bio             string    `json:"bio"`
	Qualifications  []string  `json:"qualifications"`
	Specializations []string  `json:"specializations"`
	Image           string    `json:"image,omitempty"`
	Email           string    `json:"email"`
	Phone           string    `json:"phone"`
	IsActive        bool      `json:"isActive"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (m TeamMember) EntityID() string { return m.ID }

const (
	EventAppointmentBooked   = "APPOINTMENT_BOOKED"
	EventAppointmentStatus   = "APPOINTMENT_STATUS_CHANGED"
	EventAppointmentReminder = "APPOINTMENT_REMINDER_SENT"
	EventAppointmentDeleted  = "APPOINTMENT_DELETED"
)

// Event is an audit entry about an appointment.
type Event struct {
	ID            string            `json:"id"`
	Type          string            `json:"type"`
	AppointmentID string            `json:"appointmentId"`
	ActorID       string            `json:"actorId,omitempty"`
	Payload       map[string]string `json:"payload,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

func (e Event) EntityID() string { return e.ID }

// State is the document persisted under StateKey.
type State struct {
	Services     []MedicalService `json:"services"`
	Appointments []Appointment    `json:"appointments"`
	Patients     []Patient        `json:"patients"`
	Testimonials []Testimonial    `json:"testimonials"`
	TeamMembers  []TeamMember     `json:"teamMembers"`
	Events       []Event          `json:"events"`
}

// BookingRequest is the final commit of the booking wizard.
type BookingRequest struct {
	FirstName             string
	LastName              string
	Email                 string
	Phone                 string
	DateOfBirth           string
	Gender                Gender
	ServiceID             string
	Date                  string
	Time                  string
	Reason                string
	InsuranceProvider     string
	InsurancePolicyNumber string
	MedicalHistory        string
}

type Booking struct {
	Patient     Patient     `json:"patient"`
	Appointment Appointment `json:"appointment"`
}

type ServiceInput struct {
	Name             string
	Slug             string
	Category         string
	Description      string
	ShortDescription string
	Price            float64
	Duration         int
	IsActive         bool
	FeaturedImage    string
	Icon             string
}

type ServicePatch struct {
	Name             *string
	Slug             *string
	Category         *string
	Description      *string
	ShortDescription *string
	Price            *float64
	Duration         *int
	IsActive         *bool
	FeaturedImage    *string
	Icon             *string
}

type AppointmentPatch struct {
	ProviderID   *string
	ProviderName *string
	Notes        *string
}

type PatientPatch struct {
	FirstName          *string
	LastName           *string
	Phone              *string
	DateOfBirth        *string
	Gender             *Gender
	Address            *Address
	EmergencyContact   *EmergencyContact
	Insurance          *Insurance
	MedicalHistory     *string
	Allergies          []string
	CurrentMedications []string
	BloodType          *string
}

type TestimonialInput struct {
	PatientName string
	Rating      int
	Content     string
	Image       string
}

type TeamMemberInput struct {
	Name            string
	Role            string
	Department      string
	Bio             string
	Qualifications  []string
	Specializations []string
	Image           string
	Email           string
	Phone           string
	IsActive        bool
}

type AppointmentFilter struct {
	Date   string
	Status AppointmentStatus
	Email  string
}

// Portal is a patient's appointments split the way the portal shows them.
// A completed appointment dated today or later appears in both lists.
type Portal struct {
	Upcoming []Appointment `json:"upcoming"`
	Past     []Appointment `json:"past"`
}

// Stats is the clinic part of the back-office dashboard.
type Stats struct {
	TotalPatients       int `json:"totalPatients"`
	AppointmentsToday   int `json:"appointmentsToday"`
	PendingAppointments int `json:"pendingAppointments"`
	ActiveServices      int `json:"activeServices"`
}
