package service

import (
	"context"

	"exchange_sdk/internal/domain/entity"
)

// Swap exchanges FromAmount of the from account's currency into the to account's currency.
func (s *exchangeService) Swap(ctx context.Context, req entity.SwapRequest) (entity.SwapResult, error) {
	if s.gateways.Swap == nil {
		return entity.SwapResult{}, errMissingGateway
	}

	out, err := s.observe(ctx, entity.ExchangeSwap, func(begin func()) (outcome, error) {
		return s.run(ctx, flow{
			exchangeType:    entity.ExchangeSwap,
			family:          s.cfg.SwapErrors,
			gateway:         s.gateways.Swap,
			fromAccountID:   req.FromAccountID,
			toAccountID:     req.ToAccountID,
			amount:          req.FromAmount,
			feeStrategy:     req.FeeStrategy,
			customFeeConfig: req.CustomFeeConfig,
			quoteID:         req.QuoteID,
			rate:            req.Rate,
			toNewTokenID:    req.ToNewTokenID,
			complete:        s.host.CompleteSwap,
		}, begin)
	})
	if err != nil {
		return entity.SwapResult{}, err
	}
	return entity.SwapResult{SwapID: out.exchangeID, TransactionID: out.transactionID}, nil
}
