package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/clinic"
	"github.com/hackgods/vortex-care/internal/recruitment"
)

type serviceSeed struct {
	name, category, short, description, icon string
	price                                    float64
	duration                                 int
}

var serviceSeeds = []serviceSeed{
	{"General Consultation", "Primary Care", "Routine check-ups and diagnosis",
		"Comprehensive consultations with our primary care physicians covering diagnosis, treatment plans and referrals.", "stethoscope", 75, 30},
	{"Pediatric Care", "Primary Care", "Health care for infants, children and teens",
		"Well-child visits, vaccinations and treatment of childhood illnesses by board-certified pediatricians.", "baby", 85, 30},
	{"Cardiology", "Specialist", "Heart health screening and treatment",
		"ECG, stress testing and cardiovascular risk assessment with follow-up care from our cardiology team.", "heart-pulse", 150, 45},
	{"Dermatology", "Specialist", "Skin, hair and nail conditions",
		"Diagnosis and treatment of acne, eczema, psoriasis and skin cancer screening.", "scan-face", 120, 30},
	{"Laboratory Tests", "Diagnostics", "Blood work and lab panels",
		"On-site phlebotomy and laboratory testing with results shared through the patient portal.", "flask-conical", 40, 15},
	{"Physiotherapy", "Rehabilitation", "Recovery from injury and surgery",
		"Individual rehabilitation programmes combining manual therapy and guided exercise.", "activity", 90, 60},
}

// Clinic is the initial clinic catalogue: services, the care team and a few
// approved testimonials. It has no patients or appointments.
func Clinic() clinic.State {
	now := time.Now().UTC()
	services := make([]clinic.MedicalService, 0, len(serviceSeeds))
	for _, s := range serviceSeeds {
		services = append(services, clinic.MedicalService{
			ID:               uuid.NewString(),
			Name:             s.name,
			Slug:             recruitment.Slugify(s.name),
			Category:         s.category,
			Description:      s.description,
			ShortDescription: s.short,
			Price:            s.price,
			Duration:         s.duration,
			IsActive:         true,
			Icon:             s.icon,
			CreatedAt:        now,
			UpdatedAt:        now,
		})
	}

	team := []clinic.TeamMember{
		{
			ID: uuid.NewString(), Name: "Dr. Sarah Johnson", Role: "Physician", Department: "General Medicine",
			Bio:             "Internal medicine specialist with over ten years of clinical practice.",
			Qualifications:  []string{"MD", "Board Certified in Internal Medicine"},
			Specializations: []string{"Internal Medicine", "Preventive Care"},
			Email:           "doctor@vortexcare.com", Phone: "+1234567891", IsActive: true, CreatedAt: now,
		},
		{
			ID: uuid.NewString(), Name: "Michael Brown", Role: "Front Desk Lead", Department: "Reception",
			Bio:             "Coordinates scheduling and patient intake.",
			Qualifications:  []string{"Certified Medical Administrative Assistant"},
			Specializations: []string{},
			Email:           "staff@vortexcare.com", Phone: "+1234567892", IsActive: true, CreatedAt: now,
		},
	}

	testimonials := []clinic.Testimonial{
		{ID: uuid.NewString(), PatientName: "Emily R.", Rating: 5, IsApproved: true, CreatedAt: now,
			Content: "Booking was simple and Dr. Johnson took the time to explain everything."},
		{ID: uuid.NewString(), PatientName: "David K.", Rating: 4, IsApproved: true, CreatedAt: now,
			Content: "Friendly reception team and very little waiting."},
	}

	return clinic.State{
		Services:     services,
		Appointments: []clinic.Appointment{},
		Patients:     []clinic.Patient{},
		Testimonials: testimonials,
		TeamMembers:  team,
		Events:       []clinic.Event{},
	}
}

func mustDate(s string) time.Time {
	t, err := time.Parse(clinic.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}
