package dashboard

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// ErrInvalidQuery indicates an unknown filter or sort value.
var ErrInvalidQuery = errors.New("invalid project query")

// TimePeriod limits projects by how recently they were updated
type TimePeriod string

const (
	PeriodAll     TimePeriod = "all"
	PeriodWeek    TimePeriod = "week"
	PeriodMonth   TimePeriod = "month"
	PeriodQuarter TimePeriod = "quarter"
	PeriodYear    TimePeriod = "year"
)

var periodDays = map[TimePeriod]int{
	PeriodWeek:    7,
	PeriodMonth:   30,
	PeriodQuarter: 90,
	PeriodYear:    365,
}

// SortKey orders filtered projects
type SortKey string

const (
	SortByUpdated SortKey = "updated"
	SortByDanger  SortKey = "danger"
	SortByName    SortKey = "name"
)

// ProjectQuery selects and orders projects.
// Zero values mean no filtering and sort by last update.
type ProjectQuery struct {
	Search      string
	RAGStatus   RAGStatus
	Period      TimePeriod
	Departments []string
	SortBy      SortKey
}

// NewProjectQuery builds a query from raw string parameters. The RAG filter
// and period accept "all" or "" for no filter.
func NewProjectQuery(search, rag, period, sortBy string, departments []string) (ProjectQuery, error) {
	q := ProjectQuery{Search: strings.TrimSpace(search)}

	switch r := strings.ToLower(strings.TrimSpace(rag)); r {
	case "", "all":
	default:
		status := RAGStatus(r)
		if !status.Valid() {
			return ProjectQuery{}, fmt.Errorf("%w: rag status %q", ErrInvalidQuery, rag)
		}
		q.RAGStatus = status
	}

	switch p := TimePeriod(strings.ToLower(strings.TrimSpace(period))); p {
	case "", PeriodAll:
		q.Period = PeriodAll
	case PeriodWeek, PeriodMonth, PeriodQuarter, PeriodYear:
		q.Period = p
	default:
		return ProjectQuery{}, fmt.Errorf("%w: time period %q", ErrInvalidQuery, period)
	}

	switch s := SortKey(strings.ToLower(strings.TrimSpace(sortBy))); s {
	case "", SortByUpdated:
		q.SortBy = SortByUpdated
	case SortByDanger, SortByName:
		q.SortBy = s
	default:
		return ProjectQuery{}, fmt.Errorf("%w: sort %q", ErrInvalidQuery, sortBy)
	}

	for _, dept := range departments {
		if dept = strings.TrimSpace(dept); dept != "" {
			q.Departments = append(q.Departments, dept)
		}
	}
	return q, nil
}

// Apply filters and sorts projects relative to now. The input is not
// modified.
func (q ProjectQuery) Apply(projects []Project, now time.Time) []Project {
	out := make([]Project, 0, len(projects))
	for _, p := range projects {
		if q.matches(p, now) {
			out = append(out, p)
		}
	}

	switch q.SortBy {
	case SortByDanger:
		slices.SortStableFunc(out, func(a, b Project) int {
			return b.DangerScore - a.DangerScore
		})
	case SortByName:
		slices.SortStableFunc(out, func(a, b Project) int {
			if c := strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name)); c != 0 {
				return c
			}
			return strings.Compare(a.Name, b.Name)
		})
	default:
		slices.SortStableFunc(out, func(a, b Project) int {
			ta, _ := ParseTimestamp(a.LastUpdated)
			tb, _ := ParseTimestamp(b.LastUpdated)
			return tb.Compare(ta)
		})
	}
	return out
}

func (q ProjectQuery) matches(p Project, now time.Time) bool {
	if q.Search != "" && !matchesSearch(p, strings.ToLower(q.Search)) {
		return false
	}
	if q.RAGStatus != "" && p.RAGStatus != q.RAGStatus {
		return false
	}
	if len(q.Departments) > 0 && !slices.ContainsFunc(p.Departments, func(d string) bool {
		return slices.Contains(q.Departments, d)
	}) {
		return false
	}
	if days, ok := periodDays[q.Period]; ok {
		updated, ok := ParseTimestamp(p.LastUpdated)
		if !ok {
			return false
		}
		if int(now.Sub(updated).Hours()/24) > days {
			return false
		}
	}
	return true
}

func matchesSearch(p Project, needle string) bool {
	if strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Code), needle) {
		return true
	}
	return slices.ContainsFunc(p.Owners, func(owner string) bool {
		return strings.Contains(strings.ToLower(owner), needle)
	})
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ParseTimestamp parses the ISO date and datetime forms the remote
// service emits.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
