package dashboard

import (
	"slices"
	"strings"
	"time"
)

// Overview summarizes a project list for the dashboard header.
type Overview struct {
	TotalProjects      int               `json:"total_projects"`
	CriticalIssues     int               `json:"critical_issues"`
	AtRisk             int               `json:"at_risk"`
	HealthyProjects    int               `json:"healthy_projects"`
	RecentUpdates      int               `json:"recent_updates"`
	AverageDangerScore float64           `json:"average_danger_score"`
	Distribution       map[RAGStatus]int `json:"distribution"`
}

// OwnerProjects groups the projects an owner reports on.
type OwnerProjects struct {
	Owner    string    `json:"owner"`
	Projects []Project `json:"projects"`
}

// Summarize computes the overview. A project counts as recently updated
// when its last update is less than 24 hours before now.
func Summarize(projects []Project, now time.Time) Overview {
	o := Overview{
		TotalProjects: len(projects),
		Distribution:  map[RAGStatus]int{RAGRed: 0, RAGAmber: 0, RAGGreen: 0},
	}
	if len(projects) == 0 {
		return o
	}

	total := 0
	for _, p := range projects {
		o.Distribution[p.RAGStatus]++
		total += p.DangerScore
		if updated, ok := ParseTimestamp(p.LastUpdated); ok && now.Sub(updated) < 24*time.Hour {
			o.RecentUpdates++
		}
	}
	o.CriticalIssues = o.Distribution[RAGRed]
	o.AtRisk = o.Distribution[RAGAmber]
	o.HealthyProjects = o.Distribution[RAGGreen]
	o.AverageDangerScore = float64(total) / float64(len(projects))
	return o
}

// GroupByOwner lists projects per owner, owners sorted by name. A project
// with several owners appears under each of them.
func GroupByOwner(projects []Project) []OwnerProjects {
	index := map[string]int{}
	var groups []OwnerProjects
	for _, p := range projects {
		for _, owner := range p.Owners {
			owner = strings.TrimSpace(owner)
			if owner == "" {
				continue
			}
			i, ok := index[owner]
			if !ok {
				i = len(groups)
				index[owner] = i
				groups = append(groups, OwnerProjects{Owner: owner})
			}
			groups[i].Projects = append(groups[i].Projects, p)
		}
	}
	slices.SortFunc(groups, func(a, b OwnerProjects) int {
		return strings.Compare(a.Owner, b.Owner)
	})
	if groups == nil {
		groups = []OwnerProjects{}
	}
	return groups
}

// CountByDepartment counts projects per department. A project in several
// departments is counted in each.
func CountByDepartment(projects []Project) map[string]int {
	counts := map[string]int{}
	for _, p := range projects {
		for _, dept := range p.Departments {
			if dept = strings.TrimSpace(dept); dept != "" {
				counts[dept]++
			}
		}
	}
	return counts
}
