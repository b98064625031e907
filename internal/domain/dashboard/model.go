package dashboard

import "strings"

// RAGStatus is the Red/Amber/Green health indicator of a project
type RAGStatus string

const (
	RAGRed   RAGStatus = "red"
	RAGAmber RAGStatus = "amber"
	RAGGreen RAGStatus = "green"
)

// ParseRAGStatus normalizes a remote label to a RAGStatus.
// Unknown and empty labels map to green.
func ParseRAGStatus(label string) RAGStatus {
	switch RAGStatus(strings.ToLower(strings.TrimSpace(label))) {
	case RAGRed:
		return RAGRed
	case RAGAmber:
		return RAGAmber
	default:
		return RAGGreen
	}
}

// Valid reports whether s is one of the three known values.
func (s RAGStatus) Valid() bool {
	return s == RAGRed || s == RAGAmber || s == RAGGreen
}

// HealthMetrics holds 0-100 scores for a project
type HealthMetrics struct {
	Performance float64 `json:"performance"`
	Quality     float64 `json:"quality"`
	Schedule    float64 `json:"schedule"`
}

// Project is a tracked initiative
type Project struct {
	ID            string         `json:"id"`
	Code          string         `json:"code"`
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	Owners        []string       `json:"owners"`
	Departments   []string       `json:"departments"`
	StartDate     *string        `json:"start_date,omitempty"`
	EndDate       *string        `json:"end_date,omitempty"`
	RAGStatus     RAGStatus      `json:"rag_status"`
	DangerScore   int            `json:"danger_score"`
	LastUpdated   string         `json:"last_updated"`
	RecentTrend   string         `json:"recent_trend"`
	StatusUpdate  string         `json:"status_update"`
	HealthMetrics *HealthMetrics `json:"health_metrics,omitempty"`
}

// ProjectStatus is the per-project rollup of risk and ownership metadata
type ProjectStatus struct {
	ID                 string          `json:"id"`
	ProjectID          string          `json:"project_id"`
	DangerCategory     string          `json:"danger_category"`
	DangerScore        int             `json:"danger_score"`
	Context            string          `json:"context"`
	Colors             string          `json:"colors"`
	StatusReporters    []string        `json:"status_reporters"`
	ProjectManager     string          `json:"project_manager"`
	TechLead           string          `json:"tech_lead"`
	Group              string          `json:"group"`
	CurrentWeekContext string          `json:"current_week_context"`
	PrevWeekContext    string          `json:"prev_week_context"`
	Description        string          `json:"description"`
	Status             string          `json:"status"`
	Updates            []ProjectUpdate `json:"updates"`
}

// ProjectUpdate is one weekly status entry
type ProjectUpdate struct {
	ID                 string  `json:"id"`
	Date               string  `json:"date"`
	RAGStatus          string  `json:"rag_status"`
	CreatedBy          string  `json:"created_by"`
	StatusContext      string  `json:"status_context"`
	ProjectStatusID    string  `json:"project_status_id"`
	IsCurrentWeek      bool    `json:"is_current_week"`
	IsPrevWeek         bool    `json:"is_prev_week"`
	IsPrevPrevWeek     bool    `json:"is_prev_prev_week"`
	CurrentWeekPoints  float64 `json:"current_week_points"`
	PrevWeekPoints     float64 `json:"prev_week_points"`
	PrevPrevWeekPoints float64 `json:"prev_prev_week_points"`
}

// Dataset is the joined result of one fetch cycle.
type Dataset struct {
	Projects []Project       `json:"projects"`
	Statuses []ProjectStatus `json:"statuses"`
	Updates  []ProjectUpdate `json:"updates"`
}

// EmptyDataset returns a dataset whose slices are non-nil.
func EmptyDataset() Dataset {
	return Dataset{
		Projects: []Project{},
		Statuses: []ProjectStatus{},
		Updates:  []ProjectUpdate{},
	}
}

// StatusForProject returns the status record whose ProjectID matches.
func (d Dataset) StatusForProject(projectID string) (ProjectStatus, bool) {
	for _, st := range d.Statuses {
		if st.ProjectID == projectID {
			return st, true
		}
	}
	return ProjectStatus{}, false
}

// Credentials identify the remote workspace and its three datasets.
type Credentials struct {
	Token              string `json:"-"`
	ProjectsDatabaseID string `json:"projects_database_id"`
	StatusDatabaseID   string `json:"status_database_id"`
	UpdatesDatabaseID  string `json:"updates_database_id"`
}

// Complete reports whether every field is non-blank.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.Token) != "" &&
		strings.TrimSpace(c.ProjectsDatabaseID) != "" &&
		strings.TrimSpace(c.StatusDatabaseID) != "" &&
		strings.TrimSpace(c.UpdatesDatabaseID) != ""
}
