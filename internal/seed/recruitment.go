package seed

import (
	"time"

	"github.com/google/uuid"

	"github.com/hackgods/vortex-care/internal/recruitment"
)

type positionSeed struct {
	title, department, location string
	jobType                     recruitment.JobType
	level                       recruitment.ExperienceLevel
	min, max                    int
	description                 string
	requirements, benefits      []string
	image                       string
	prior                       int
}

var positionSeeds = []positionSeed{
	{
		title: "Registered Nurse", department: "Nursing", location: "New York, NY",
		jobType: recruitment.JobFullTime, level: recruitment.LevelMid, min: 65000, max: 85000,
		description:  "We are seeking experienced Registered Nurses to join our dynamic healthcare team. Provide compassionate patient care and work alongside dedicated medical professionals.",
		requirements: []string{"Current RN License", "2+ years of nursing experience", "BScN or equivalent", "Strong communication skills", "ACLS Certification"},
		benefits:     []string{"Competitive salary and benefits", "401(k) matching", "Health insurance", "Paid time off", "Professional development opportunities"},
		image:        "https://images.unsplash.com/photo-1632925686637-d32aaded46e3?w=800",
		prior:        12,
	},
	{
		title: "Physician Assistant", department: "Clinical", location: "Los Angeles, CA",
		jobType: recruitment.JobFullTime, level: recruitment.LevelMid, min: 110000, max: 140000,
		description:  "Join our medical team as a Physician Assistant. Diagnose and treat patients, order tests, prescribe medications, and assist in surgical procedures.",
		requirements: []string{"Master's degree in PA Studies", "PA-C certification", "3+ years clinical experience", "State PA license", "Strong diagnostic skills"},
		benefits:     []string{"Excellent compensation package", "Comprehensive health insurance", "CME allowance", "Retirement plans", "Flexible scheduling"},
		image:        "https://images.unsplash.com/photo-1631217868264-e5b90bb7e133?w=800",
		prior:        8,
	},
	{
		title: "Medical Technologist", department: "Laboratory", location: "Chicago, IL",
		jobType: recruitment.JobFullTime, level: recruitment.LevelEntry, min: 40000, max: 55000,
		description:  "Perform laboratory tests and analysis to help in the diagnosis and treatment of diseases. Work with state-of-the-art equipment in a modern facility.",
		requirements: []string{"Bachelor's degree in Medical Technology", "ASCP MT(ASCP) certification", "Attention to detail", "Ability to work in a fast-paced environment", "Knowledge of laboratory safety"},
		benefits:     []string{"Starting salary competitive", "Health and dental insurance", "Shift differentials", "Tuition reimbursement", "Continuing education support"},
		image:        "https://images.unsplash.com/photo-1576091160550-2173dba999ef?w=800",
		prior:        5,
	},
	{
		title: "Pharmacy Technician", department: "Pharmacy", location: "Houston, TX",
		jobType: recruitment.JobPartTime, level: recruitment.LevelEntry, min: 28000, max: 38000,
		description:  "Assist pharmacists in dispensing medications and managing pharmacy operations. Ensure accuracy and patient safety in all transactions.",
		requirements: []string{"High school diploma or GED", "Pharmacy Technician Certification", "Reliable and detail-oriented", "Customer service experience", "Ability to lift up to 50 lbs"},
		benefits:     []string{"Flexible scheduling", "Employee discount on medications", "Health insurance", "Paid training", "Career advancement opportunities"},
		image:        "https://images.unsplash.com/photo-1587854692152-cbe660dbde0f?w=800",
		prior:        15,
	},
	{
		title: "Medical Receptionist", department: "Administration", location: "Miami, FL",
		jobType: recruitment.JobFullTime, level: recruitment.LevelEntry, min: 30000, max: 40000,
		description:  "Welcome patients, schedule appointments, and handle administrative tasks. Be the first point of contact for patients visiting our healthcare facility.",
		requirements: []string{"High school diploma or GED", "Customer service experience", "Proficiency with medical scheduling software", "Excellent communication skills", "Bilingual a plus"},
		benefits:     []string{"Competitive salary", "Health insurance", "Paid holidays and vacation", "Professional development", "Friendly work environment"},
		image:        "https://images.unsplash.com/photo-1576091160550-2173dba999ef?w=800",
		prior:        10,
	},
	{
		title: "Physical Therapist", department: "Rehabilitation", location: "Seattle, WA",
		jobType: recruitment.JobFullTime, level: recruitment.LevelMid, min: 75000, max: 100000,
		description:  "Help patients recover from injuries and disabilities through therapeutic exercises and treatments. Work in a collaborative healthcare environment.",
		requirements: []string{"DPT from accredited program", "State PT license", "2+ years practice experience", "Strong patient communication skills", "Knowledge of therapeutic modalities"},
		benefits:     []string{"Competitive compensation", "Comprehensive benefits package", "Continuing education funds", "Flexible hours", "Team environment"},
		image:        "https://images.unsplash.com/photo-1506126613408-eca07ce68773?w=800",
		prior:        6,
	},
}

// Recruitment is the initial job board: six open positions with their
// historical application counts, no applications or messages, and the
// default site settings.
func Recruitment() recruitment.State {
	now := time.Now().UTC()
	positions := make([]recruitment.Position, 0, len(positionSeeds))
	for _, s := range positionSeeds {
		positions = append(positions, recruitment.Position{
			ID:                uuid.NewString(),
			Title:             s.title,
			Slug:              recruitment.Slugify(s.title),
			Department:        s.department,
			Location:          s.location,
			JobType:           s.jobType,
			ExperienceLevel:   s.level,
			Salary:            recruitment.Salary{Min: s.min, Max: s.max, Currency: "USD"},
			Description:       s.description,
			Requirements:      s.requirements,
			Benefits:          s.benefits,
			IsActive:          true,
			FeaturedImage:     s.image,
			PriorApplications: s.prior,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
	}
	return recruitment.State{
		Positions:    positions,
		Applications: []recruitment.Application{},
		Messages:     []recruitment.ContactMessage{},
		Settings:     DefaultSettings(),
	}
}

func DefaultSettings() recruitment.Settings {
	return recruitment.Settings{
		SiteName:         "Vortex Healthcare Careers",
		Tagline:          "Join Our Healthcare Team",
		Description:      "Discover exciting career opportunities in healthcare. We're seeking talented professionals to join our growing organization.",
		Phone:            "+1 (555) 123-4567",
		Email:            "careers@vortexcare.com",
		Address:          "123 Healthcare Blvd, Medical City, MC 12345",
		OperatingHours:   "Monday - Friday: 9:00 AM - 6:00 PM",
		EmergencyContact: "+1 (555) 123-4567",
		SocialLinks: recruitment.SocialLinks{
			Facebook:  "https://facebook.com/vortexcareers",
			Twitter:   "https://twitter.com/vortexcareers",
			LinkedIn:  "https://linkedin.com/company/vortexcare",
			Instagram: "https://instagram.com/vortexcareers",
		},
	}
}
