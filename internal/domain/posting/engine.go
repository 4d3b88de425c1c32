// Package posting runs the submit/cancel lifecycle of documents: status
// checks, lifecycle hooks, persistence, stock ledger and audit, all inside
// one transaction.
package posting

import (
	"context"
	"fmt"

	appctx "rms/internal/core/context"
	"rms/internal/core/entity"
	"rms/internal/core/id"
	"rms/internal/core/tx"
	"rms/internal/domain"
	"rms/internal/domain/audit"
	"rms/pkg/logger"
	"rms/pkg/metrics"
)

// Document is what the engine needs from a submittable document.
type Document interface {
	entity.Validatable
	GetID() id.ID
	GetNumber() string
	GetDocStatus() entity.DocStatus
	CanModify() error
	CanSubmit() error
	CanCancel() error
	MarkSubmitted()
	MarkCancelled()
}

// StockDocument is a document that moves stock when submitted.
type StockDocument interface {
	Document
	LedgerEntries() ([]entity.StockLedgerEntry, error)
}

// StockRecorder writes and reverses stock ledger entries.
type StockRecorder interface {
	RecordEntries(ctx context.Context, entries []entity.StockLedgerEntry) error
	CancelVoucher(ctx context.Context, voucherID id.ID) error
}

// AuditLogger records lifecycle actions.
type AuditLogger interface {
	LogAction(ctx context.Context, entityType string, entityID id.ID, action string, details map[string]any) error
}

// Engine holds the dependencies shared by all document lifecycles.
type Engine struct {
	txm   tx.Manager
	stock StockRecorder
	audit AuditLogger
}

// NewEngine creates a posting engine. audit may be nil.
func NewEngine(txm tx.Manager, stock StockRecorder, audit AuditLogger) *Engine {
	return &Engine{txm: txm, stock: stock, audit: audit}
}

// RunInTransaction exposes the engine's transaction manager to document services.
func (e *Engine) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return e.txm.RunInTransaction(ctx, fn)
}

func (e *Engine) logAction(ctx context.Context, doctype string, doc Document, action string) error {
	if e.audit == nil {
		return nil
	}
	return e.audit.LogAction(ctx, doctype, doc.GetID(), action, map[string]any{
		"number":     doc.GetNumber(),
		"docstatus":  int(doc.GetDocStatus()),
		"request_id": appctx.GetRequestID(ctx),
	})
}

// Lifecycle runs save/submit/cancel for one doctype.
type Lifecycle[T Document] struct {
	engine  *Engine
	doctype string
	hooks   *domain.HookRegistry[T]
	persist func(ctx context.Context, doc T) error
}

// NewLifecycle creates the lifecycle of doctype. persist writes the document
// header and rows of an existing document.
func NewLifecycle[T Document](engine *Engine, doctype string, persist func(ctx context.Context, doc T) error) *Lifecycle[T] {
	return &Lifecycle[T]{
		engine:  engine,
		doctype: doctype,
		hooks:   domain.NewHookRegistry[T](),
		persist: persist,
	}
}

// Hooks returns the registry of lifecycle hooks.
func (l *Lifecycle[T]) Hooks() *domain.HookRegistry[T] {
	return l.hooks
}

// Doctype returns the document type name.
func (l *Lifecycle[T]) Doctype() string {
	return l.doctype
}

func (l *Lifecycle[T]) validate(ctx context.Context, doc T) error {
	if err := doc.Validate(ctx); err != nil {
		return err
	}
	if err := l.hooks.Run(ctx, domain.Validate, doc); err != nil {
		return err
	}
	return l.hooks.Run(ctx, domain.BeforeSave, doc)
}

// Save validates a draft and writes it with write. write is the repository
// create or update call; it runs inside the transaction after the hooks.
func (l *Lifecycle[T]) Save(ctx context.Context, doc T, write func(ctx context.Context, doc T) error) error {
	if err := doc.CanModify(); err != nil {
		return err
	}
	return l.engine.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := l.validate(ctx, doc); err != nil {
			return err
		}
		audit.EnrichOnSave(ctx, doc)
		if err := write(ctx, doc); err != nil {
			return fmt.Errorf("save %s: %w", l.doctype, err)
		}
		return nil
	})
}

// Submit moves a draft to docstatus 1.
func (l *Lifecycle[T]) Submit(ctx context.Context, doc T) error {
	if err := doc.CanSubmit(); err != nil {
		return err
	}

	err := l.engine.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		doc.MarkSubmitted()
		if err := l.validate(ctx, doc); err != nil {
			return err
		}
		audit.EnrichUpdatedBy(ctx, doc)
		if err := l.hooks.Run(ctx, domain.BeforeSubmit, doc); err != nil {
			return err
		}
		if err := l.persist(ctx, doc); err != nil {
			return fmt.Errorf("save %s: %w", l.doctype, err)
		}

		if sd, ok := any(doc).(StockDocument); ok {
			entries, err := sd.LedgerEntries()
			if err != nil {
				return err
			}
			if err := l.engine.stock.RecordEntries(ctx, entries); err != nil {
				return err
			}
		}

		if err := l.hooks.Run(ctx, domain.OnSubmit, doc); err != nil {
			return err
		}
		return l.engine.logAction(ctx, l.doctype, doc, "submit")
	})
	if err != nil {
		return err
	}

	metrics.DocumentAction(l.doctype, "submit")
	logger.Info(ctx, "document submitted", "doctype", l.doctype, "number", doc.GetNumber())
	return nil
}

// Cancel moves a submitted document to docstatus 2.
func (l *Lifecycle[T]) Cancel(ctx context.Context, doc T) error {
	if err := doc.CanCancel(); err != nil {
		return err
	}

	err := l.engine.txm.RunInTransaction(ctx, func(ctx context.Context) error {
		doc.MarkCancelled()
		audit.EnrichUpdatedBy(ctx, doc)
		if err := l.hooks.Run(ctx, domain.BeforeCancel, doc); err != nil {
			return err
		}
		if err := l.persist(ctx, doc); err != nil {
			return fmt.Errorf("save %s: %w", l.doctype, err)
		}

		if _, ok := any(doc).(StockDocument); ok {
			if err := l.engine.stock.CancelVoucher(ctx, doc.GetID()); err != nil {
				return err
			}
		}

		if err := l.hooks.Run(ctx, domain.OnCancel, doc); err != nil {
			return err
		}
		return l.engine.logAction(ctx, l.doctype, doc, "cancel")
	})
	if err != nil {
		return err
	}

	metrics.DocumentAction(l.doctype, "cancel")
	logger.Info(ctx, "document cancelled", "doctype", l.doctype, "number", doc.GetNumber())
	return nil
}
