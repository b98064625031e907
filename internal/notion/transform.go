package notion

import (
	"math"
	"strings"
	"time"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
)

// Property names in the projects database.
const (
	propProjectCode      = "Project_Code"
	propProjectName      = "Project_Name"
	propDescription      = "Description"
	propStatusReporters  = "Status_Reporters"
	propGroup            = "Group"
	propStartDate        = "Start_Date"
	propEndDate          = "End_Date"
	propRAGStatus        = "RAG_Status"
	propRAGDangerScore   = "RAG_Danger_Score"
	propRAGStatusDate    = "RAG_Status_Date"
	propRAGColors        = "RAG_Colors"
	propRAGContext       = "RAG_Context"
	propPerformanceScore = "Performance_Score"
	propQualityScore     = "Quality_Score"
	propScheduleScore    = "Schedule_Score"
)

// Property names in the status database.
const (
	propProject            = "Project"
	propRAGDangerCategory  = "RAG_Danger_Category"
	propProjectManager     = "Project_Manager"
	propTechLead           = "Tech_Lead"
	propCurrentWeekContext = "Current_Week_Context"
	propPrevWeekContext    = "Prev_Week_Context"
	propProjectDescription = "Project_Description"
	propProjectStatus      = "Project_Status"
)

// Property names in the updates database.
const (
	propDate               = "Date"
	propCreatedBy          = "Created_by"
	propStatusContext      = "Status_Context"
	propProjectStatusRel   = "Project_status"
	propIsCurrentWeek      = "Is_Current_Week"
	propIsPrevWeek         = "Is_Prev_Week"
	propIsPrevPrevWeek     = "Is_PrevPrev_Week"
	propCurrentWeekPoints  = "Current_Week_Points"
	propPrevWeekPoints     = "Prev_Week_Points"
	propPrevPrevWeekPoints = "PrevPrev_Week_Points"
)

// defaultUpdateRAG is the label used when an update has no RAG select.
const defaultUpdateRAG = "Green"

// TransformProject maps a projects-database page to a Project. When the
// page carries no status date, the page edit time and then fetchedAt are
// used as LastUpdated.
func TransformProject(page Page, fetchedAt time.Time) (dashboard.Project, []FieldIssue) {
	r := newPropertyReader(page)

	proj := dashboard.Project{
		ID:           page.ID,
		Code:         r.richText(propProjectCode),
		Name:         r.title(propProjectName),
		Description:  r.richText(propDescription),
		Owners:       r.people(propStatusReporters),
		Departments:  splitDepartments(r.formulaString(propGroup)),
		RAGStatus:    dashboard.ParseRAGStatus(r.rollupSelectName(propRAGStatus)),
		DangerScore:  toInt(r.rollupNumber(propRAGDangerScore)),
		RecentTrend:  r.rollupFormulaString(propRAGColors),
		StatusUpdate: r.rollupFormulaString(propRAGContext),
	}

	if start, ok := r.dateStart(propStartDate); ok {
		proj.StartDate = &start
	}
	if end, ok := r.dateStart(propEndDate); ok {
		proj.EndDate = &end
	}

	if updated, ok := r.rollupDateStart(propRAGStatusDate); ok {
		proj.LastUpdated = updated
	} else if page.LastEditedTime != "" {
		proj.LastUpdated = page.LastEditedTime
	} else {
		proj.LastUpdated = fetchedAt.UTC().Format(time.RFC3339)
	}

	if r.has(propPerformanceScore) || r.has(propQualityScore) || r.has(propScheduleScore) {
		proj.HealthMetrics = &dashboard.HealthMetrics{
			Performance: r.number(propPerformanceScore),
			Quality:     r.number(propQualityScore),
			Schedule:    r.number(propScheduleScore),
		}
	}

	return proj, r.issues
}

// TransformStatus maps a status-database page to a ProjectStatus with an
// empty Updates list.
func TransformStatus(page Page) (dashboard.ProjectStatus, []FieldIssue) {
	r := newPropertyReader(page)

	status := dashboard.ProjectStatus{
		ID:                 page.ID,
		ProjectID:          r.firstRelation(propProject),
		DangerCategory:     r.formulaString(propRAGDangerCategory),
		DangerScore:        toInt(r.formulaNumber(propRAGDangerScore)),
		Context:            r.formulaString(propRAGContext),
		Colors:             r.formulaString(propRAGColors),
		StatusReporters:    r.people(propStatusReporters),
		ProjectManager:     r.rollupText(propProjectManager),
		TechLead:           r.rollupText(propTechLead),
		Group:              r.rollupText(propGroup),
		CurrentWeekContext: r.rollupText(propCurrentWeekContext),
		PrevWeekContext:    r.rollupText(propPrevWeekContext),
		Description:        r.richText(propProjectDescription),
		Status:             r.selectName(propProjectStatus),
		Updates:            []dashboard.ProjectUpdate{},
	}
	return status, r.issues
}

// TransformUpdate maps an updates-database page to a ProjectUpdate.
func TransformUpdate(page Page) (dashboard.ProjectUpdate, []FieldIssue) {
	r := newPropertyReader(page)

	update := dashboard.ProjectUpdate{
		ID:                 page.ID,
		RAGStatus:          r.selectName(propRAGStatus),
		CreatedBy:          r.firstPerson(propCreatedBy),
		StatusContext:      r.richText(propStatusContext),
		ProjectStatusID:    r.firstRelation(propProjectStatusRel),
		IsCurrentWeek:      r.formulaBool(propIsCurrentWeek),
		IsPrevWeek:         r.formulaBool(propIsPrevWeek),
		IsPrevPrevWeek:     r.formulaBool(propIsPrevPrevWeek),
		CurrentWeekPoints:  r.formulaNumber(propCurrentWeekPoints),
		PrevWeekPoints:     r.formulaNumber(propPrevWeekPoints),
		PrevPrevWeekPoints: r.formulaNumber(propPrevPrevWeekPoints),
	}
	if date, ok := r.dateStart(propDate); ok {
		update.Date = date
	}
	if update.RAGStatus == "" {
		update.RAGStatus = defaultUpdateRAG
	}
	return update, r.issues
}

func splitDepartments(raw string) []string {
	departments := []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			departments = append(departments, part)
		}
	}
	return departments
}

func toInt(v float64) int {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(math.Round(v))
}
