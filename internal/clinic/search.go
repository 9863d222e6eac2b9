package clinic

import (
	"strings"
)

// AllCategories matches every service category.
const AllCategories = "All"

// SearchServices returns active services whose name or description contains
// keyword, restricted to category unless it is empty or AllCategories.
func SearchServices(services []MedicalService, keyword, category string) []MedicalService {
	kw := strings.ToLower(strings.TrimSpace(keyword))
	out := make([]MedicalService, 0, len(services))
	for _, s := range services {
		if !s.IsActive {
			continue
		}
		if kw != "" && !strings.Contains(strings.ToLower(s.Name), kw) &&
			!strings.Contains(strings.ToLower(s.Description), kw) {
			continue
		}
		if category != "" && category != AllCategories && s.Category != category {
			continue
		}
		out = append(out, s)
	}
	return out
}

// Categories lists the distinct categories of active services in first-seen
// order, prefixed with AllCategories.
func Categories(services []MedicalService) []string {
	out := []string{AllCategories}
	seen := map[string]bool{}
	for _, s := range services {
		if !s.IsActive || seen[s.Category] {
			continue
		}
		seen[s.Category] = true
		out = append(out, s.Category)
	}
	return out
}

// SplitPortal separates a patient's appointments into upcoming (dated today
// or later and not cancelled) and past (dated before today or completed).
func SplitPortal(appts []Appointment, today string) Portal {
	p := Portal{Upcoming: []Appointment{}, Past: []Appointment{}}
	for _, a := range appts {
		if a.Date >= today && a.Status != StatusCancelled {
			p.Upcoming = append(p.Upcoming, a)
		}
		if a.Date < today || a.Status == StatusCompleted {
			p.Past = append(p.Past, a)
		}
	}
	return p
}
