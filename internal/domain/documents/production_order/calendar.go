package production_order

import (
	"time"

	"github.com/shopspring/decimal"

	"rms/internal/core/id"
	"rms/internal/core/types"
)

// CalendarFilter selects the orders planned in [Start, End].
type CalendarFilter struct {
	Start          time.Time
	End            time.Time
	ProductionItem string
	WIPWarehouse   string
}

// Event is one production order on the calendar.
type Event struct {
	ID       id.ID      `json:"id"`
	Name     string     `json:"name"`
	Title    string     `json:"title"`
	Start    time.Time  `json:"start"`
	End      *time.Time `json:"end,omitempty"`
	AllDay   bool       `json:"allDay"`
	Status   Status     `json:"status"`
	Progress float64    `json:"progress"`
	Class    string     `json:"className"`
}

// CalendarEvents maps orders to calendar events.
func CalendarEvents(orders []*ProductionOrder) []Event {
	events := make([]Event, 0, len(orders))
	for _, po := range orders {
		events = append(events, Event{
			ID:       po.ID,
			Name:     po.Number,
			Title:    po.Number,
			Start:    po.PlannedStartDate,
			End:      po.PlannedEndDate,
			AllDay:   false,
			Status:   po.Status,
			Progress: progress(po),
			Class:    eventClass(po.Status),
		})
	}
	return events
}

func progress(po *ProductionOrder) float64 {
	pct := types.Percent(po.ProducedQty.Decimal(), po.Qty.Decimal(), 2)
	p, _ := decimal.Min(pct, decimal.NewFromInt(100)).Float64()
	return p
}

func eventClass(status Status) string {
	switch status {
	case StatusCompleted:
		return "success"
	case StatusInProcess:
		return "warning"
	}
	return "danger"
}
