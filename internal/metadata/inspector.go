package metadata

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"rms/internal/core/id"
	"rms/internal/core/types"
)

var (
	idType       = reflect.TypeOf(id.ID{})
	timeType     = reflect.TypeOf(time.Time{})
	quantityType = reflect.TypeOf(types.Quantity(0))
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// Inspect analyzes a struct and returns its EntityDef.
func Inspect(entity any, name string, entityType EntityType) EntityDef {
	t := reflect.TypeOf(entity)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	if name == "" {
		name = guessLabel(t.Name())
	}

	def := EntityDef{
		Name:       name,
		Label:      name,
		Type:       entityType,
		Fields:     make([]FieldDef, 0),
		TableParts: make([]TablePartDef, 0),
	}

	inspectStruct(t, &def)

	return def
}

func inspectStruct(t reflect.Type, def *EntityDef) {
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.PkgPath != "" {
			continue
		}

		if field.Anonymous {
			inspectStruct(field.Type, def)
			continue
		}

		// Slices of structs are child tables.
		if field.Type.Kind() == reflect.Slice && field.Type.Elem().Kind() == reflect.Struct {
			def.TableParts = append(def.TableParts, TablePartDef{
				Name:    jsonName(field),
				Label:   guessLabel(field.Name),
				Columns: inspectColumns(field.Type.Elem()),
			})
			continue
		}

		fDef, ok := fieldDef(field)
		if !ok {
			continue
		}
		fDef.ReadOnly = isReadOnly(field)
		def.Fields = append(def.Fields, fDef)
	}
}

func inspectColumns(t reflect.Type) []FieldDef {
	cols := make([]FieldDef, 0)
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		if fDef, ok := fieldDef(field); ok {
			cols = append(cols, fDef)
		}
	}
	return cols
}

func fieldDef(field reflect.StructField) (FieldDef, bool) {
	fDef := FieldDef{
		Name:     jsonName(field),
		Label:    guessLabel(field.Name),
		Required: isRequired(field),
	}
	if fDef.Name == "-" {
		return fDef, false
	}
	mapFieldType(&fDef, field)
	return fDef, true
}

func mapFieldType(def *FieldDef, field reflect.StructField) {
	t := field.Type
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	switch t {
	case idType:
		def.Type = TypeReference
		// "ProductionOrderID" -> "Production Order"
		if base, ok := strings.CutSuffix(field.Name, "ID"); ok && base != "" {
			def.ReferenceType = guessLabel(base)
		}
		return
	case timeType:
		def.Type = TypeDate
		return
	case quantityType:
		def.Type = TypeNumber
		def.Scale = 4
		return
	case decimalType:
		def.Type = TypeNumber
		def.Scale = 6
		return
	}

	switch t.Kind() {
	case reflect.String:
		def.Type = TypeString
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		def.Type = TypeInteger
	case reflect.Float32, reflect.Float64:
		def.Type = TypeNumber
		def.Scale = 3
	case reflect.Bool:
		def.Type = TypeBoolean
	default:
		def.Type = TypeString
	}
}

func jsonName(field reflect.StructField) string {
	if tag, ok := field.Tag.Lookup("json"); ok {
		name, _, _ := strings.Cut(tag, ",")
		if name != "" {
			return name
		}
	}
	runes := []rune(field.Name)
	runes[0] = unicode.ToLower(runes[0])
	return string(runes)
}

func isRequired(field reflect.StructField) bool {
	if tag, ok := field.Tag.Lookup("binding"); ok {
		return strings.Contains(tag, "required")
	}
	return false
}

func isReadOnly(field reflect.StructField) bool {
	switch field.Name {
	case "ID", "CreatedAt", "UpdatedAt", "Version", "DocStatus", "Number":
		return true
	}
	return false
}

// guessLabel splits a Go identifier into words: "FGWarehouse" -> "FG Warehouse".
func guessLabel(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (unicode.IsUpper(runes[i-1]) && nextLower) {
				b.WriteByte(' ')
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}
