package desk

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet_Projects(t *testing.T) {
	m, ok := Get("Projects")
	require.True(t, ok)
	require.Len(t, m.Sections, 2)

	projects := m.Sections[0]
	assert.Equal(t, "fa fa-star", projects.Icon)
	require.Len(t, projects.Items, 4)
	assert.Equal(t, "Tree/Task", projects.Items[1].Route)
	assert.Equal(t, TypeReport, projects.Items[3].Type)
	assert.Equal(t, "Task", projects.Items[3].DocType)

	tracking := m.Sections[1].Items[0]
	assert.True(t, tracking.IsQueryReport)
	assert.Equal(t, "Project Tracking", tracking.Name)
}

func TestGet_Unknown(t *testing.T) {
	_, ok := Get("accounts")
	assert.False(t, ok)
}

func TestModules_Sorted(t *testing.T) {
	mods := Modules()
	require.Len(t, mods, 3)
	assert.Equal(t, "manufacturing", mods[0].Name)
	assert.Equal(t, "projects", mods[1].Name)
	assert.Equal(t, "stock", mods[2].Name)
}

func TestEntry_JSONOmitsEmpty(t *testing.T) {
	b, err := json.Marshal(Entry{Type: TypeDocType, Name: "Project", Description: "Project master."})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"doctype","name":"Project","description":"Project master."}`, string(b))
}
