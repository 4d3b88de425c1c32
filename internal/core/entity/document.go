package entity

import (
	"context"
	"fmt"
	"time"

	"rms/internal/core/apperror"
)

// DocStatus is the lifecycle state shared by all submittable documents.
type DocStatus int

const (
	DocStatusDraft     DocStatus = 0
	DocStatusSubmitted DocStatus = 1
	DocStatusCancelled DocStatus = 2
)

func (s DocStatus) String() string {
	switch s {
	case DocStatusDraft:
		return "Draft"
	case DocStatusSubmitted:
		return "Submitted"
	case DocStatusCancelled:
		return "Cancelled"
	}
	return fmt.Sprintf("DocStatus(%d)", int(s))
}

// Document is the base type for business transactions
// (Material Request, Stock Entry, Production Order, ...).
type Document struct {
	BaseDocument

	// Number is the human-readable document name (auto-generated, unique per type)
	Number string `db:"number" json:"number"`

	// DocStatus: 0 draft, 1 submitted, 2 cancelled
	DocStatus DocStatus `db:"docstatus" json:"docstatus"`

	// Comment is an optional user comment
	Comment string `db:"comment" json:"comment,omitempty"`
}

// NewDocument creates a new draft Document with generated ID.
func NewDocument() Document {
	return Document{
		BaseDocument: NewBaseDocument(),
		DocStatus:    DocStatusDraft,
	}
}

// CanModify checks if document can be saved.
// Submitted and cancelled documents are immutable.
func (d *Document) CanModify() error {
	if d.DocStatus != DocStatusDraft {
		return apperror.NewBusinessRule(
			apperror.CodeDocumentSubmitted,
			"Cannot edit a submitted document",
		).WithDetail("document", d.Number).
			WithDetail("docstatus", int(d.DocStatus))
	}
	return nil
}

// CanSubmit checks the docstatus transition 0 -> 1.
func (d *Document) CanSubmit() error {
	if d.DocStatus != DocStatusDraft {
		return apperror.NewInvalidStatus(
			fmt.Sprintf("Cannot submit %s: document is %s", d.Number, d.DocStatus),
		)
	}
	return nil
}

// CanCancel checks the docstatus transition 1 -> 2.
func (d *Document) CanCancel() error {
	if d.DocStatus != DocStatusSubmitted {
		return apperror.NewInvalidStatus(
			fmt.Sprintf("Cannot cancel %s: document is %s", d.Number, d.DocStatus),
		)
	}
	return nil
}

// MarkSubmitted moves the document to docstatus 1.
func (d *Document) MarkSubmitted() {
	d.DocStatus = DocStatusSubmitted
	d.UpdatedAt = time.Now().UTC()
}

// MarkCancelled moves the document to docstatus 2.
func (d *Document) MarkCancelled() {
	d.DocStatus = DocStatusCancelled
	d.UpdatedAt = time.Now().UTC()
}

// IsSubmitted returns true for docstatus 1.
func (d *Document) IsSubmitted() bool {
	return d.DocStatus == DocStatusSubmitted
}

// GetNumber returns the document number.
func (d *Document) GetNumber() string {
	return d.Number
}

// GetDocStatus returns the lifecycle state.
func (d *Document) GetDocStatus() DocStatus {
	return d.DocStatus
}

// Validate implements Validatable interface.
func (d *Document) Validate(ctx context.Context) error {
	if d.DocStatus < DocStatusDraft || d.DocStatus > DocStatusCancelled {
		return apperror.NewValidation("invalid docstatus").
			WithDetail("field", "docstatus")
	}
	return nil
}
