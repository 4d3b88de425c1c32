package metadata

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
)

type sampleRow struct {
	ID       id.ID          `json:"id"`
	ParentID id.ID          `json:"-"`
	ItemCode string         `json:"itemCode"`
	Qty      types.Quantity `json:"qty"`
}

type sampleDoc struct {
	entity.Document

	Status            string          `json:"status" binding:"required"`
	PostingDate       time.Time       `json:"postingDate"`
	ProductionOrderID *id.ID          `json:"productionOrder,omitempty"`
	PerOrdered        decimal.Decimal `json:"perOrdered"`
	Items             []sampleRow     `json:"items"`
	internal          string
}

func field(t *testing.T, fields []FieldDef, name string) FieldDef {
	t.Helper()
	for _, f := range fields {
		if f.Name == name {
			return f
		}
	}
	require.Failf(t, "field not found", "%s", name)
	return FieldDef{}
}

func TestInspect_Document(t *testing.T) {
	def := Inspect(sampleDoc{internal: "x"}, "", TypeDocument)

	assert.Equal(t, "sample Doc", def.Name)

	number := field(t, def.Fields, "number")
	assert.True(t, number.ReadOnly)

	status := field(t, def.Fields, "status")
	assert.True(t, status.Required)
	assert.Equal(t, TypeString, status.Type)

	assert.Equal(t, TypeDate, field(t, def.Fields, "postingDate").Type)

	ref := field(t, def.Fields, "productionOrder")
	assert.Equal(t, TypeReference, ref.Type)
	assert.Equal(t, "Production Order", ref.ReferenceType)

	pct := field(t, def.Fields, "perOrdered")
	assert.Equal(t, TypeNumber, pct.Type)

	require.Len(t, def.TableParts, 1)
	items := def.TableParts[0]
	assert.Equal(t, "items", items.Name)
	require.Len(t, items.Columns, 3)
	qty := field(t, items.Columns, "qty")
	assert.Equal(t, TypeNumber, qty.Type)
	assert.Equal(t, 4, qty.Scale)
}

func TestGuessLabel(t *testing.T) {
	cases := map[string]string{
		"ItemCode":       "Item Code",
		"FGCompletedQty": "FG Completed Qty",
		"BOMNo":          "BOM No",
		"SWarehouse":     "S Warehouse",
		"ID":             "ID",
	}
	for in, want := range cases {
		assert.Equal(t, want, guessLabel(in), in)
	}
}

func TestRegistry_SetOptionsAndList(t *testing.T) {
	reg := NewRegistry()
	def := Inspect(sampleDoc{}, "Sample", TypeDocument)
	def.SetOptions("status", "Draft", "Submitted")
	reg.Register(def)
	reg.Register(EntityDef{Name: "Alpha", Type: TypeCatalog})

	got, ok := reg.Get("Sample")
	require.True(t, ok)
	status := field(t, got.Fields, "status")
	assert.Equal(t, TypeEnum, status.Type)
	assert.Equal(t, []string{"Draft", "Submitted"}, status.Options)

	list := reg.List()
	require.Len(t, list, 2)
	assert.Equal(t, "Alpha", list[0].Name)
}
