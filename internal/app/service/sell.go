package service

import (
	"context"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
)

// Sell sends FromAmount of the account's currency to the provider in exchange for fiat.
func (s *exchangeService) Sell(ctx context.Context, req entity.SellRequest) (entity.SellResult, error) {
	if s.gateways.Sell == nil {
		return entity.SellResult{}, errMissingGateway
	}

	out, err := s.observe(ctx, entity.ExchangeSell, func(begin func()) (outcome, error) {
		return s.run(ctx, flow{
			exchangeType:    entity.ExchangeSell,
			family:          exchangeerr.FamilyGeneric,
			gateway:         s.gateways.Sell,
			fromAccountID:   req.AccountID,
			amount:          req.FromAmount,
			feeStrategy:     req.FeeStrategy,
			customFeeConfig: req.CustomFeeConfig,
			quoteID:         req.QuoteID,
			productType:     req.Type,
			toFiat:          req.ToFiat,
			rate:            req.Rate,
			checkAmount:     true,
			complete:        s.host.CompleteSell,
		}, begin)
	})
	if err != nil {
		return entity.SellResult{}, err
	}
	return entity.SellResult{SellID: out.exchangeID, TransactionID: out.transactionID}, nil
}
