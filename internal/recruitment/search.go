package recruitment

import (
	"strings"
)

// SearchPositions returns the active positions matching q, in store order.
func SearchPositions(positions []PositionView, q JobQuery) []PositionView {
	kw := strings.ToLower(strings.TrimSpace(q.Keyword))
	out := make([]PositionView, 0, len(positions))
	for _, p := range positions {
		if !p.IsActive {
			continue
		}
		if kw != "" && !containsFold(p.Title, kw) && !containsFold(p.Description, kw) {
			continue
		}
		if q.JobType != "" && p.JobType != q.JobType {
			continue
		}
		if q.Department != "" && p.Department != q.Department {
			continue
		}
		if q.Location != "" && p.Location != q.Location {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Facets lists the distinct filter values over active positions, in
// first-seen order.
func Facets(positions []PositionView) JobFacets {
	f := JobFacets{Departments: []string{}, Locations: []string{}, JobTypes: []JobType{}}
	seenDept := map[string]bool{}
	seenLoc := map[string]bool{}
	seenType := map[JobType]bool{}
	for _, p := range positions {
		if !p.IsActive {
			continue
		}
		if !seenDept[p.Department] {
			seenDept[p.Department] = true
			f.Departments = append(f.Departments, p.Department)
		}
		if !seenLoc[p.Location] {
			seenLoc[p.Location] = true
			f.Locations = append(f.Locations, p.Location)
		}
		if !seenType[p.JobType] {
			seenType[p.JobType] = true
			f.JobTypes = append(f.JobTypes, p.JobType)
		}
	}
	return f
}

// SearchApplications matches term against job title or status.
func SearchApplications(apps []Application, term string) []Application {
	kw := strings.ToLower(strings.TrimSpace(term))
	if kw == "" {
		return apps
	}
	out := make([]Application, 0, len(apps))
	for _, a := range apps {
		if containsFold(a.JobTitle, kw) || containsFold(string(a.Status), kw) {
			out = append(out, a)
		}
	}
	return out
}

func SummarizeApplications(apps []Application) SeekerStats {
	var s SeekerStats
	for _, a := range apps {
		s.Submitted++
		switch a.Status {
		case StatusSubmitted, StatusUnderReview:
			s.UnderReview++
		case StatusShortlisted:
			s.Shortlisted++
		case StatusOffered:
			s.Offers++
		}
	}
	return s
}

// withCounts derives ApplicationsCount for every position.
func withCounts(positions []Position, apps []Application) []PositionView {
	counts := make(map[string]int, len(positions))
	for _, a := range apps {
		counts[a.PositionID]++
	}
	out := make([]PositionView, len(positions))
	for i, p := range positions {
		out[i] = PositionView{Position: p, ApplicationsCount: p.PriorApplications + counts[p.ID]}
	}
	return out
}

// Slugify lower-cases s and joins its alphanumeric runs with hyphens.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

// containsFold reports whether lower-cased needle occurs in s.
func containsFold(s, needle string) bool {
	return strings.Contains(strings.ToLower(s), needle)
}
