// Package audit fills the created_by / updated_by fields of documents.
package audit

import (
	"context"

	appctx "rms/internal/core/context"
)

type creatorAware interface {
	SetCreatedBy(string)
	SetUpdatedBy(string)
}

type updaterAware interface {
	SetUpdatedBy(string)
}

// EnrichCreatedBy sets CreatedBy and UpdatedBy from the context user.
// No-op without an authenticated user.
func EnrichCreatedBy(ctx context.Context, entity any) {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return
	}
	if e, ok := entity.(creatorAware); ok {
		e.SetCreatedBy(userID)
		e.SetUpdatedBy(userID)
	}
}

// EnrichUpdatedBy sets only UpdatedBy from the context user.
func EnrichUpdatedBy(ctx context.Context, entity any) {
	userID := appctx.GetUserID(ctx)
	if userID == "" {
		return
	}
	if e, ok := entity.(updaterAware); ok {
		e.SetUpdatedBy(userID)
	}
}

type creatorReader interface {
	GetCreatedBy() string
}

// EnrichOnSave stamps the context user on a document being saved: both
// fields on first save, UpdatedBy afterwards.
func EnrichOnSave(ctx context.Context, entity any) {
	if r, ok := entity.(creatorReader); ok && r.GetCreatedBy() == "" {
		EnrichCreatedBy(ctx, entity)
		return
	}
	EnrichUpdatedBy(ctx, entity)
}
