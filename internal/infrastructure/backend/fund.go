package backend

import (
	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"

	"go.uber.org/zap"
)

// NewFundClient creates the card funding backend gateway rooted at baseURL.
func NewFundClient(baseURL string, opts Options, logger *zap.Logger) port.BackendGateway {
	return newRemitClient(entity.ExchangeFund, baseURL, opts, logger.Named("FundBackend"))
}
