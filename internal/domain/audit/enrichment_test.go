package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	appctx "rms/internal/core/context"
	"rms/internal/core/entity"
)

func TestEnrich(t *testing.T) {
	doc := entity.NewDocument()

	EnrichCreatedBy(context.Background(), &doc)
	assert.Empty(t, doc.CreatedBy)

	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "stock.user"})
	EnrichCreatedBy(ctx, &doc)
	assert.Equal(t, "stock.user", doc.CreatedBy)
	assert.Equal(t, "stock.user", doc.UpdatedBy)

	ctx = appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "manager"})
	EnrichUpdatedBy(ctx, &doc)
	assert.Equal(t, "stock.user", doc.CreatedBy)
	assert.Equal(t, "manager", doc.UpdatedBy)
}

func TestEnrichOnSave(t *testing.T) {
	doc := entity.NewDocument()
	ctx := appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "stock.user"})

	EnrichOnSave(ctx, &doc)
	assert.Equal(t, "stock.user", doc.CreatedBy)

	ctx = appctx.WithUser(context.Background(), &appctx.UserContext{UserID: "manager"})
	EnrichOnSave(ctx, &doc)
	assert.Equal(t, "stock.user", doc.CreatedBy)
	assert.Equal(t, "manager", doc.UpdatedBy)
}
