package service

import (
	"context"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
)

// Fund tops up a card order with FromAmount of the account's currency.
func (s *exchangeService) Fund(ctx context.Context, req entity.FundRequest) (entity.FundResult, error) {
	if s.gateways.Fund == nil {
		return entity.FundResult{}, errMissingGateway
	}

	out, err := s.observe(ctx, entity.ExchangeFund, func(begin func()) (outcome, error) {
		return s.run(ctx, flow{
			exchangeType:    entity.ExchangeFund,
			family:          exchangeerr.FamilyGeneric,
			gateway:         s.gateways.Fund,
			fromAccountID:   req.AccountID,
			amount:          req.FromAmount,
			feeStrategy:     req.FeeStrategy,
			customFeeConfig: req.CustomFeeConfig,
			quoteID:         req.OrderID,
			productType:     req.Type,
			checkAmount:     true,
			complete:        s.host.CompleteFund,
		}, begin)
	})
	if err != nil {
		return entity.FundResult{}, err
	}
	return entity.FundResult{OrderID: out.exchangeID, TransactionID: out.transactionID}, nil
}
