package material_request

import (
	"fmt"

	"github.com/shopspring/decimal"

	"rms/internal/core/apperror"
	"rms/internal/core/entity"
)

// Status is the workflow status of a request.
type Status string

const (
	StatusDraft            Status = "Draft"
	StatusSubmitted        Status = "Submitted"
	StatusStopped          Status = "Stopped"
	StatusCancelled        Status = "Cancelled"
	StatusPending          Status = "Pending"
	StatusPartiallyOrdered Status = "Partially Ordered"
	StatusOrdered          Status = "Ordered"
	StatusIssued           Status = "Issued"
	StatusTransferred      Status = "Transferred"
	StatusClosed           Status = "Closed"
)

var allStatuses = []Status{
	StatusDraft, StatusSubmitted, StatusStopped, StatusCancelled, StatusPending,
	StatusPartiallyOrdered, StatusOrdered, StatusIssued, StatusTransferred, StatusClosed,
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	for _, known := range allStatuses {
		if s == known {
			return true
		}
	}
	return false
}

func statusNames() []string {
	names := make([]string, len(allStatuses))
	for i, s := range allStatuses {
		names[i] = string(s)
	}
	return names
}

var hundred = decimal.NewFromInt(100)

// statusRule maps a condition on the request to a status. Rules are
// evaluated in order and the first match wins.
type statusRule struct {
	status Status
	match  func(mr *MaterialRequest) bool
}

func openAndSubmitted(mr *MaterialRequest) bool {
	return mr.Status != StatusStopped && mr.Status != StatusClosed && mr.DocStatus == entity.DocStatusSubmitted
}

func fullyOrdered(mr *MaterialRequest, types ...Type) bool {
	if !openAndSubmitted(mr) || !mr.PerOrdered.Equal(hundred) {
		return false
	}
	for _, t := range types {
		if mr.Type == t {
			return true
		}
	}
	return false
}

var statusRules = []statusRule{
	{StatusIssued, func(mr *MaterialRequest) bool { return fullyOrdered(mr, TypeMaterialIssue) }},
	{StatusTransferred, func(mr *MaterialRequest) bool { return fullyOrdered(mr, TypeMaterialTransfer) }},
	{StatusOrdered, func(mr *MaterialRequest) bool { return fullyOrdered(mr, TypePurchase, TypeManufacture) }},
	{StatusPartiallyOrdered, func(mr *MaterialRequest) bool {
		return openAndSubmitted(mr) && mr.PerOrdered.IsPositive() && mr.PerOrdered.LessThan(hundred)
	}},
	{StatusPending, func(mr *MaterialRequest) bool {
		return openAndSubmitted(mr) && mr.PerOrdered.IsZero()
	}},
	{StatusCancelled, func(mr *MaterialRequest) bool { return mr.DocStatus == entity.DocStatusCancelled }},
	{StatusClosed, func(mr *MaterialRequest) bool { return mr.Status == StatusClosed }},
	{StatusStopped, func(mr *MaterialRequest) bool { return mr.Status == StatusStopped }},
}

// SetStatus applies status when given and then derives the status from
// docstatus and per_ordered.
func (mr *MaterialRequest) SetStatus(status Status) {
	if status != "" {
		mr.Status = status
	}
	for _, rule := range statusRules {
		if rule.match(mr) {
			mr.Status = rule.status
			return
		}
	}
	mr.Status = StatusDraft
}

// StatusCanChange checks that the request may move to status.
func (mr *MaterialRequest) StatusCanChange(status Status) error {
	switch mr.Status {
	case StatusCancelled:
		if status != mr.Status {
			return apperror.NewInvalidStatus(
				fmt.Sprintf("%s %s is cancelled so the action cannot be completed", Doctype, mr.Number),
			)
		}
	case StatusDraft:
		if status != StatusPending {
			return apperror.NewInvalidStatus(
				fmt.Sprintf("%s %s has not been submitted so the action cannot be completed", Doctype, mr.Number),
			)
		}
	}
	return nil
}

// CheckNotClosed fails for a Closed request.
func (mr *MaterialRequest) CheckNotClosed() error {
	if mr.Status == StatusClosed {
		return apperror.NewInvalidStatus(fmt.Sprintf("%s %s status is %s", Doctype, mr.Number, mr.Status))
	}
	return nil
}
