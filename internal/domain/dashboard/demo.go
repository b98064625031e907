package dashboard

// DemoDataset returns the fixed demonstration data shown when the remote
// workspace cannot be used. Each call returns fresh slices.
func DemoDataset() Dataset {
	ds := EmptyDataset()
	ds.Projects = DemoProjects()
	return ds
}

// DemoProjects returns the fixed demonstration projects.
func DemoProjects() []Project {
	return []Project{
		demoProject("1", "A-1", "Project Alpha", "Jade", "Engineering", RAGGreen, 3,
			"2024-03-18T09:00:00Z",
			"Steady (last 3 weeks were all Green)",
			"No major issues. All tasks on schedule."),
		demoProject("2", "B-2", "Project Beta", "Alex", "Operations", RAGAmber, 7,
			"2024-03-19T09:00:00Z",
			"Declining (dropped from Green to Amber last week)",
			"Possible supplier delays, investigating impact."),
		demoProject("3", "C-3", "Project Gamma", "Sarah", "Engineering", RAGRed, 9,
			"2024-03-20T06:00:00Z",
			"Critical (Red status for past 2 weeks)",
			"Resource constraints causing significant delays. Escalated to management."),
		demoProject("4", "D-4", "Project Delta", "Mike", "Product", RAGGreen, 2,
			"2024-03-15T09:00:00Z",
			"Improved (Amber to Green transition)",
			"Team productivity increased after process optimization."),
		demoProject("5", "E-5", "Project Epsilon", "Lisa", "Quality", RAGAmber, 6,
			"2024-03-19T21:00:00Z",
			"Fluctuating between Amber and Green",
			"Quality issues identified in latest release. Review in progress."),
		demoProject("6", "F-6", "Project Zeta", "Tom", "Product", RAGGreen, 4,
			"2024-03-16T09:00:00Z",
			"Consistently Green for past month",
			"All milestones achieved ahead of schedule."),
		demoProject("7", "G-7", "Project Eta", "Rachel", "Operations", RAGRed, 8,
			"2024-03-20T08:00:00Z",
			"Urgent intervention needed",
			"Critical system failure. Emergency response team engaged."),
		demoProject("8", "H-8", "Project Theta", "David", "Engineering", RAGAmber, 5,
			"2024-03-20T01:00:00Z",
			"Showing signs of improvement",
			"New mitigation strategies implemented. Monitoring progress."),
	}
}

func demoProject(id, code, name, owner, department string, rag RAGStatus, danger int, updated, trend, status string) Project {
	return Project{
		ID:           id,
		Code:         code,
		Name:         name,
		Owners:       []string{owner},
		Departments:  []string{department},
		RAGStatus:    rag,
		DangerScore:  danger,
		LastUpdated:  updated,
		RecentTrend:  trend,
		StatusUpdate: status,
	}
}
