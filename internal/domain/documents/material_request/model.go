// Package material_request provides the Material Request document: a request
// to purchase, transfer, issue or manufacture stock items.
package material_request

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/types"
)

// Doctype is the document type name used in messages, audit and metadata.
const Doctype = "Material Request"

// Type is the material_request_type of a request.
type Type string

const (
	TypePurchase         Type = "Purchase"
	TypeMaterialTransfer Type = "Material Transfer"
	TypeMaterialIssue    Type = "Material Issue"
	TypeManufacture      Type = "Manufacture"
)

// Valid reports whether t is a known request type.
func (t Type) Valid() bool {
	switch t {
	case TypePurchase, TypeMaterialTransfer, TypeMaterialIssue, TypeManufacture:
		return true
	}
	return false
}

// MaterialRequest is the request header.
type MaterialRequest struct {
	entity.Document

	Type            Type            `db:"material_request_type" json:"materialRequestType"`
	Status          Status          `db:"status" json:"status"`
	TransactionDate time.Time       `db:"transaction_date" json:"transactionDate"`
	ScheduleDate    *time.Time      `db:"schedule_date" json:"scheduleDate,omitempty"`
	Title           string          `db:"title" json:"title"`
	PerOrdered      decimal.Decimal `db:"per_ordered" json:"perOrdered"`

	Items []Item `db:"-" json:"items"`
}

// Item is one requested row.
type Item struct {
	ID                id.ID           `db:"id" json:"id"`
	MaterialRequestID id.ID           `db:"material_request_id" json:"-"`
	Idx               int             `db:"idx" json:"idx"`
	ItemCode          string          `db:"item_code" json:"itemCode"`
	ItemName          string          `db:"item_name" json:"itemName"`
	Description       string          `db:"description" json:"description"`
	Warehouse         string          `db:"warehouse" json:"warehouse"`
	Qty               types.Quantity  `db:"qty" json:"qty"`
	UOM               string          `db:"uom" json:"uom"`
	ConversionFactor  decimal.Decimal `db:"conversion_factor" json:"conversionFactor"`
	StockQty          types.Quantity  `db:"stock_qty" json:"stockQty"`
	ScheduleDate      *time.Time      `db:"schedule_date" json:"scheduleDate,omitempty"`
	ProjectedQty      types.Quantity  `db:"projected_qty" json:"projectedQty"`
	OrderedQty        types.Quantity  `db:"ordered_qty" json:"orderedQty"`
	ReceivedQty       types.Quantity  `db:"received_qty" json:"receivedQty"`
}

// PendingQty is what is still to be ordered in stock units, never negative.
func (it *Item) PendingQty() types.Quantity {
	if it.StockQty > it.OrderedQty {
		return it.StockQty - it.OrderedQty
	}
	return 0
}

// NewMaterialRequest creates a draft request dated on transactionDate.
func NewMaterialRequest(t Type, transactionDate time.Time) *MaterialRequest {
	return &MaterialRequest{
		Document:        entity.NewDocument(),
		Type:            t,
		Status:          StatusDraft,
		TransactionDate: transactionDate,
		Items:           make([]Item, 0),
	}
}

// AddItem appends a row and returns it.
func (mr *MaterialRequest) AddItem(itemCode, warehouse string, qty types.Quantity) *Item {
	mr.Items = append(mr.Items, Item{
		ID:                id.New(),
		MaterialRequestID: mr.ID,
		Idx:               len(mr.Items) + 1,
		ItemCode:          itemCode,
		Warehouse:         warehouse,
		Qty:               qty,
		ConversionFactor:  decimal.NewFromInt(1),
	})
	return &mr.Items[len(mr.Items)-1]
}

// FindItem returns the row with rowID.
func (mr *MaterialRequest) FindItem(rowID id.ID) *Item {
	for i := range mr.Items {
		if mr.Items[i].ID == rowID {
			return &mr.Items[i]
		}
	}
	return nil
}

// Validate checks the header and the row fields that need no lookups.
func (mr *MaterialRequest) Validate(ctx context.Context) error {
	if err := mr.Document.Validate(ctx); err != nil {
		return err
	}
	if !mr.Type.Valid() {
		return apperror.NewValidation(fmt.Sprintf("Invalid Material Request Type: %s", mr.Type)).
			WithDetail("field", "materialRequestType")
	}
	if mr.TransactionDate.IsZero() {
		return apperror.NewValidation("Transaction Date is required").
			WithDetail("field", "transactionDate")
	}
	if err := mr.validateScheduleDate(); err != nil {
		return err
	}

	if mr.Status == "" {
		mr.Status = StatusDraft
	}
	if !mr.Status.Valid() {
		return apperror.NewValidation(fmt.Sprintf("Status must be one of %s", strings.Join(statusNames(), ", "))).
			WithDetail("field", "status")
	}

	for i := range mr.Items {
		it := &mr.Items[i]
		if id.IsNil(it.ID) {
			it.ID = id.New()
		}
		it.MaterialRequestID = mr.ID
		it.Idx = i + 1
		if it.ConversionFactor.IsZero() {
			it.ConversionFactor = decimal.NewFromInt(1)
		}
		it.StockQty = it.Qty.MulDecimal(it.ConversionFactor)
	}

	mr.setTitle()
	return nil
}

func (mr *MaterialRequest) validateScheduleDate() error {
	if mr.ScheduleDate == nil {
		for _, it := range mr.Items {
			if it.ScheduleDate != nil && (mr.ScheduleDate == nil || it.ScheduleDate.Before(*mr.ScheduleDate)) {
				d := *it.ScheduleDate
				mr.ScheduleDate = &d
			}
		}
	}
	if mr.ScheduleDate == nil {
		return apperror.NewValidation("Please enter Schedule Date").
			WithDetail("field", "scheduleDate")
	}

	txDate := truncateDay(mr.TransactionDate)
	for i := range mr.Items {
		it := &mr.Items[i]
		if it.ScheduleDate == nil {
			d := *mr.ScheduleDate
			it.ScheduleDate = &d
		}
		if truncateDay(*it.ScheduleDate).Before(txDate) {
			return apperror.NewValidation("Expected Date cannot be before Transaction Date").
				WithDetail("row", it.Idx)
		}
	}
	return nil
}

// setTitle sets the title to the first four distinct item codes.
func (mr *MaterialRequest) setTitle() {
	codes := make([]string, 0, 4)
	seen := make(map[string]struct{}, 4)
	for _, it := range mr.Items {
		if _, ok := seen[it.ItemCode]; ok {
			continue
		}
		seen[it.ItemCode] = struct{}{}
		codes = append(codes, it.ItemCode)
		if len(codes) == 4 {
			break
		}
	}
	mr.Title = strings.Join(codes, ", ")
}

// ItemInfo is what row validation needs to know about an item.
type ItemInfo struct {
	ItemName    string
	Description string
	StockUOM    string
	IsStockItem bool
}

// Lookups resolves the references of request rows.
type Lookups interface {
	// ActiveItem fails when the item is missing, disabled or past end of life.
	ActiveItem(ctx context.Context, code string, on time.Time) (ItemInfo, error)
	ProjectedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error)
}

// ValidateItems checks the rows against the catalogs and the Bin.
func (mr *MaterialRequest) ValidateItems(ctx context.Context, lookups Lookups) error {
	seen := make(map[string]struct{}, len(mr.Items))
	duplicate := false

	for i := range mr.Items {
		it := &mr.Items[i]
		if !it.Qty.IsPositive() {
			return apperror.NewValidation(fmt.Sprintf("Please enter quantity for Item %s", it.ItemCode)).
				WithDetail("row", it.Idx)
		}

		projected, err := lookups.ProjectedQty(ctx, it.ItemCode, it.Warehouse)
		if err != nil {
			return err
		}
		it.ProjectedQty = projected
		if mr.DocStatus == entity.DocStatusDraft {
			it.OrderedQty = 0
			it.ReceivedQty = 0
		}

		info, err := lookups.ActiveItem(ctx, it.ItemCode, mr.TransactionDate)
		if err != nil {
			return err
		}
		if it.ItemName == "" {
			it.ItemName = info.ItemName
		}
		if it.Description == "" {
			it.Description = info.Description
		}
		if it.UOM == "" {
			it.UOM = info.StockUOM
		}

		if info.IsStockItem && it.Warehouse == "" {
			return apperror.NewValidation(
				fmt.Sprintf("Warehouse is mandatory for stock Item %s in row %d", it.ItemCode, it.Idx),
			).WithDetail("row", it.Idx)
		}

		if _, ok := seen[it.ItemCode]; ok {
			duplicate = true
		}
		seen[it.ItemCode] = struct{}{}
	}

	if duplicate {
		return apperror.NewValidation("Same item cannot be entered multiple times.")
	}
	return nil
}

// UpdateCompletedQty sets ordered_qty of the rows in ordered (row id to
// completed quantity) and recomputes per_ordered and status.
func (mr *MaterialRequest) UpdateCompletedQty(ordered map[id.ID]types.Quantity) error {
	for i := range mr.Items {
		it := &mr.Items[i]
		qty, ok := ordered[it.ID]
		if !ok {
			continue
		}
		it.OrderedQty = qty

		if mr.Type == TypeMaterialIssue || mr.Type == TypeMaterialTransfer {
			if it.OrderedQty.IsPositive() && it.OrderedQty > it.StockQty {
				return apperror.NewValidation(fmt.Sprintf(
					"The total Issue / Transfer quantity %s in Material Request %s cannot be greater than requested quantity %s for Item %s",
					it.OrderedQty, mr.Number, it.Qty, it.ItemCode,
				)).WithDetail("row", it.Idx)
			}
		}
	}

	mr.PerOrdered = mr.percentOrdered()
	mr.SetStatus("")
	return nil
}

// percentOrdered is Σ min(ordered, ref) / Σ ref × 100 where ref is qty for
// Manufacture requests and stock_qty otherwise.
func (mr *MaterialRequest) percentOrdered() decimal.Decimal {
	var done, total types.Quantity
	for _, it := range mr.Items {
		ref := it.StockQty
		if mr.Type == TypeManufacture {
			ref = it.Qty
		}
		total += ref
		done += it.OrderedQty.Min(ref)
	}
	return types.Percent(done.Decimal(), total.Decimal(), 6)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
