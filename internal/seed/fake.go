package seed

import (
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/recruitment"
)

// Faker produces demo inputs for the public flows. A fixed seed yields the
// same sequence.
type Faker struct {
	f *gofakeit.Faker
}

func NewFaker(seed uint64) *Faker {
	return &Faker{f: gofakeit.New(seed)}
}

var genders = []string{
	string(clinic.GenderMale),
	string(clinic.GenderFemale),
	string(clinic.GenderOther),
	string(clinic.GenderPreferNotToSay),
}

var insurers = []string{"Aetna", "Blue Cross", "Cigna", "UnitedHealthcare", ""}

var subjects = []string{"General enquiry", "Application status", "Partnership", "Careers fair", "Feedback"}

func (g *Faker) phone() string {
	return "+1" + g.f.Phone()
}

func (g *Faker) text(sentences int) string {
	parts := make([]string, sentences)
	for i := range parts {
		words := make([]string, g.f.Number(8, 16))
		for j := range words {
			words[j] = g.f.Word()
		}
		s := strings.Join(words, " ")
		parts[i] = strings.ToUpper(s[:1]) + s[1:] + "."
	}
	return strings.Join(parts, " ")
}

// Application returns an application to a random position.
func (g *Faker) Application(positions []recruitment.PositionView) recruitment.ApplicationInput {
	p := positions[g.f.Number(0, len(positions)-1)]
	first, last := g.f.FirstName(), g.f.LastName()
	return recruitment.ApplicationInput{
		PositionID:        p.ID,
		JobTitle:          p.Title,
		ApplicantName:     first + " " + last,
		ApplicantEmail:    strings.ToLower(fmt.Sprintf("%s.%s@%s", first, last, g.f.DomainName())),
		ApplicantPhone:    g.phone(),
		Resume:            g.f.URL() + "/resume.pdf",
		CoverLetter:       g.text(4),
		Qualifications:    g.text(2),
		YearsOfExperience: g.f.Number(0, 25),
	}
}

func (g *Faker) Message() recruitment.MessageInput {
	return recruitment.MessageInput{
		Name:    g.f.Name(),
		Email:   g.f.Email(),
		Phone:   g.phone(),
		Subject: g.f.RandomString(subjects),
		Message: g.text(3),
	}
}

// Booking returns a booking request for a random active service on one of
// dates. The time is left empty; callers pick it from the available slots.
func (g *Faker) Booking(services []clinic.MedicalService, dates []string) clinic.BookingRequest {
	svc := services[g.f.Number(0, len(services)-1)]
	dob := g.f.DateRange(
		mustDate("1940-01-01"),
		mustDate("2015-12-31"),
	)
	insurer := g.f.RandomString(insurers)
	policy := ""
	if insurer != "" {
		policy = strings.ToUpper(g.f.LetterN(3)) + g.f.DigitN(8)
	}
	return clinic.BookingRequest{
		FirstName:             g.f.FirstName(),
		LastName:              g.f.LastName(),
		Email:                 g.f.Email(),
		Phone:                 g.phone(),
		DateOfBirth:           dob.Format(clinic.DateLayout),
		Gender:                clinic.Gender(g.f.RandomString(genders)),
		ServiceID:             svc.ID,
		Date:                  dates[g.f.Number(0, len(dates)-1)],
		Reason:                g.text(1),
		InsuranceProvider:     insurer,
		InsurancePolicyNumber: policy,
	}
}

// Pick returns one of options.
func (g *Faker) Pick(options []string) string {
	return options[g.f.Number(0, len(options)-1)]
}

func (g *Faker) Testimonial() clinic.TestimonialInput {
	return clinic.TestimonialInput{
		PatientName: g.f.FirstName() + " " + g.f.LetterN(1) + ".",
		Rating:      g.f.Number(3, 5),
		Content:     g.text(2),
	}
}
