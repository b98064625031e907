package dashboard_test

import (
	"testing"

	"github.com/rpggio/ragboard/internal/domain/dashboard"
	"github.com/stretchr/testify/require"
)

func TestJoin_GroupsUpdatesByStatus(t *testing.T) {
	statuses := []dashboard.ProjectStatus{{ID: "s1"}, {ID: "s2"}}
	updates := []dashboard.ProjectUpdate{
		{ID: "u1", ProjectStatusID: "s1"},
		{ID: "u2", ProjectStatusID: "s2"},
		{ID: "u3", ProjectStatusID: "s1"},
		{ID: "u4", ProjectStatusID: "s2"},
		{ID: "u5", ProjectStatusID: "s1"},
		{ID: "orphan", ProjectStatusID: "missing"},
	}

	joined := dashboard.Join(statuses, updates)

	require.Len(t, joined, 2)
	require.Equal(t, []string{"u1", "u3", "u5"}, updateIDs(joined[0].Updates))
	require.Equal(t, []string{"u2", "u4"}, updateIDs(joined[1].Updates))
	require.Nil(t, statuses[0].Updates)
}

func TestJoin_StatusWithoutUpdates(t *testing.T) {
	joined := dashboard.Join([]dashboard.ProjectStatus{{ID: "s1"}}, nil)

	require.Len(t, joined, 1)
	require.NotNil(t, joined[0].Updates)
	require.Empty(t, joined[0].Updates)
}

func TestJoin_Empty(t *testing.T) {
	joined := dashboard.Join(nil, []dashboard.ProjectUpdate{{ID: "u1", ProjectStatusID: "s1"}})
	require.NotNil(t, joined)
	require.Empty(t, joined)
}

func updateIDs(updates []dashboard.ProjectUpdate) []string {
	ids := make([]string, 0, len(updates))
	for _, u := range updates {
		ids = append(ids, u.ID)
	}
	return ids
}
