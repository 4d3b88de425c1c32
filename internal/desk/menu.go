// Package desk provides the navigation menus shown on the desk for each module.
package desk

import (
	"sort"
	"strings"
)

// Entry types.
const (
	TypeDocType = "doctype"
	TypeReport  = "report"
)

// Entry is one link in a menu section.
type Entry struct {
	Type          string `json:"type"`
	Name          string `json:"name"`
	Route         string `json:"route,omitempty"`
	Description   string `json:"description,omitempty"`
	DocType       string `json:"doctype,omitempty"`
	IsQueryReport bool   `json:"is_query_report,omitempty"`
}

// Section groups menu entries under a label.
type Section struct {
	Label string  `json:"label"`
	Icon  string  `json:"icon"`
	Items []Entry `json:"items"`
}

// Module is a named desk module with its menu.
type Module struct {
	Name     string    `json:"name"`
	Label    string    `json:"label"`
	Sections []Section `json:"sections"`
}

var modules = map[string]func() []Section{
	"projects":      projectsMenu,
	"stock":         stockMenu,
	"manufacturing": manufacturingMenu,
}

var labels = map[string]string{
	"projects":      "Projects",
	"stock":         "Stock",
	"manufacturing": "Manufacturing",
}

// Modules returns all desk modules sorted by name.
func Modules() []Module {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]Module, 0, len(names))
	for _, name := range names {
		m, _ := Get(name)
		out = append(out, m)
	}
	return out
}

// Get returns the menu of a module. The lookup ignores case.
func Get(name string) (Module, bool) {
	key := strings.ToLower(name)
	fn, ok := modules[key]
	if !ok {
		return Module{}, false
	}
	return Module{Name: key, Label: labels[key], Sections: fn()}, true
}

func projectsMenu() []Section {
	return []Section{
		{
			Label: "Projects",
			Icon:  "fa fa-star",
			Items: []Entry{
				{Type: TypeDocType, Name: "Project", Description: "Project master."},
				{Type: TypeDocType, Name: "Task", Route: "Tree/Task", Description: "Project activity / task."},
				{Type: TypeDocType, Name: "Project Type", Description: "Define Project type."},
				{
					Type:        TypeReport,
					Name:        "Gantt Chart",
					Route:       "List/Task/Gantt",
					DocType:     "Task",
					Description: "Gantt chart of all tasks.",
				},
			},
		},
		{
			Label: "Reports",
			Icon:  "fa fa-list",
			Items: []Entry{
				{Type: TypeReport, Name: "Project Tracking", DocType: "Project", IsQueryReport: true},
			},
		},
	}
}

func stockMenu() []Section {
	return []Section{
		{
			Label: "Stock Transactions",
			Icon:  "fa fa-star",
			Items: []Entry{
				{Type: TypeDocType, Name: "Material Request", Description: "Requests for items."},
				{Type: TypeDocType, Name: "Stock Entry", Description: "Record item movements."},
				{Type: TypeDocType, Name: "Stock Reconciliation", Description: "Upload stock balance."},
			},
		},
		{
			Label: "Items and Warehouses",
			Icon:  "fa fa-cubes",
			Items: []Entry{
				{Type: TypeDocType, Name: "Item", Description: "All Products or Services."},
				{Type: TypeDocType, Name: "Item Group", Route: "Tree/Item Group", Description: "Tree of Item Groups."},
				{Type: TypeDocType, Name: "Warehouse", Route: "Tree/Warehouse", Description: "Where items are stored."},
			},
		},
		{
			Label: "Reports",
			Icon:  "fa fa-list",
			Items: []Entry{
				{Type: TypeReport, Name: "Stock Balance", DocType: "Stock Ledger Entry", IsQueryReport: true},
				{Type: TypeReport, Name: "Stock Ledger", DocType: "Stock Ledger Entry", Route: "List/Stock Ledger Entry"},
			},
		},
	}
}

func manufacturingMenu() []Section {
	return []Section{
		{
			Label: "Production",
			Icon:  "fa fa-star",
			Items: []Entry{
				{Type: TypeDocType, Name: "Production Order", Description: "Orders released for production."},
				{Type: TypeDocType, Name: "BOM", Description: "Bill of Materials (BOM)"},
				{
					Type:        TypeReport,
					Name:        "Production Calendar",
					Route:       "Calendar/Production Order",
					DocType:     "Production Order",
					Description: "Planned production orders.",
				},
			},
		},
		{
			Label: "Setup",
			Icon:  "fa fa-cog",
			Items: []Entry{
				{Type: TypeDocType, Name: "Manufacturing Settings", Description: "Global settings for all manufacturing processes."},
			},
		},
	}
}
