package material_request

import (
	"context"

	"rms/internal/core/id"
	"rms/internal/core/types"
	"rms/internal/domain"
)

// Repository persists material requests with their rows.
type Repository interface {
	Create(ctx context.Context, doc *MaterialRequest) error
	Update(ctx context.Context, doc *MaterialRequest) error
	Delete(ctx context.Context, docID id.ID) error
	GetByID(ctx context.Context, docID id.ID) (*MaterialRequest, error)
	GetByNumber(ctx context.Context, number string) (*MaterialRequest, error)
	GetForUpdate(ctx context.Context, docID id.ID) (*MaterialRequest, error)
	List(ctx context.Context, filter ListFilter) (domain.ListResult[*MaterialRequest], error)

	// TransferredQty sums transfer_qty of submitted stock entry rows per
	// linked request row.
	TransferredQty(ctx context.Context, rowIDs []id.ID) (map[id.ID]types.Quantity, error)

	// ProductionQty sums qty of submitted production orders per linked
	// request row.
	ProductionQty(ctx context.Context, rowIDs []id.ID) (map[id.ID]types.Quantity, error)

	// IndentedQty is Σ (stock_qty - ordered_qty) over rows of submitted,
	// not stopped requests for the item and warehouse where stock_qty
	// exceeds ordered_qty.
	IndentedQty(ctx context.Context, itemCode, warehouse string) (types.Quantity, error)
}

// ListFilter for filtering material requests.
type ListFilter struct {
	domain.ListFilter

	Type   Type
	Status Status
}
