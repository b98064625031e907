package dashboard

// Join attaches each update to the status whose ID equals its
// ProjectStatusID. Updates keep the relative order in which they were
// given; updates that match no status are dropped. The input statuses
// are not modified.
func Join(statuses []ProjectStatus, updates []ProjectUpdate) []ProjectStatus {
	byStatus := make(map[string][]ProjectUpdate, len(statuses))
	for _, upd := range updates {
		byStatus[upd.ProjectStatusID] = append(byStatus[upd.ProjectStatusID], upd)
	}

	joined := make([]ProjectStatus, 0, len(statuses))
	for _, st := range statuses {
		matched := byStatus[st.ID]
		st.Updates = make([]ProjectUpdate, len(matched))
		copy(st.Updates, matched)
		joined = append(joined, st)
	}
	return joined
}
