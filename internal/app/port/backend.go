package port

import (
	"context"

	"exchange_sdk/internal/domain/entity"
)

// BackendGateway talks to the exchange backend of one exchange type.
type BackendGateway interface {
	RetrievePayload(ctx context.Context, req entity.PayloadRequest) (entity.Payload, error)
	Confirm(ctx context.Context, req entity.ConfirmRequest) error
	Cancel(ctx context.Context, req entity.CancelRequest) error
}
