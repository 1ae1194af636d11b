package service

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"exchange_sdk/internal/app/txbuilder"
	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// requestAndSign labels request-and-sign flows in metrics and events. The host never sees it.
const requestAndSign entity.ExchangeType = "REQUEST_AND_SIGN"

// ERC20 ABI minimal part for approve
const erc20ApproveABI = `[{"constant":false,"inputs":[{"name":"_spender","type":"address"},{"name":"_value","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"payable":false,"stateMutability":"nonpayable","type":"function"}]`

var (
	parsedApproveABI  abi.ABI
	parsedApproveOnce sync.Once
)

func approveABI() abi.ABI {
	parsedApproveOnce.Do(func() {
		var err error
		parsedApproveABI, err = abi.JSON(strings.NewReader(erc20ApproveABI))
		if err != nil {
			panic(fmt.Sprintf("failed to parse ERC20 approve ABI: %v", err))
		}
	})
	return parsedApproveABI
}

// TokenApproval asks the host to sign an ERC-20 approve call letting the spender move Amount
// of the account's token. No backend is involved.
func (s *exchangeService) TokenApproval(ctx context.Context, req entity.TokenApprovalRequest) (entity.TokenApprovalResult, error) {
	out, err := s.observe(ctx, entity.ExchangeTokenApproval, func(begin func()) (outcome, error) {
		fam := exchangeerr.FamilyGeneric
		if !common.IsHexAddress(req.SmartContractAddress) {
			return outcome{}, exchangeerr.New(exchangeerr.KindInvalidRequest, exchangeerr.StepValidate, fam,
				fmt.Errorf("invalid spender address %q", req.SmartContractAddress))
		}

		account, err := s.resolver.Resolve(ctx, req.UserAccountID, fam)
		if err != nil {
			return outcome{}, err
		}
		if !account.Currency.IsToken() || account.Currency.Contract == "" {
			return outcome{}, exchangeerr.New(exchangeerr.KindUnsupportedFamily, exchangeerr.StepBuild, fam,
				fmt.Errorf("account %s does not hold a token with a contract", account.Account.ID))
		}

		txFamily, err := s.resolver.ResolveFamily(ctx, account.Currency, fam)
		if err != nil {
			return outcome{}, err
		}
		if txFamily != entity.FamilyEthereum && txFamily != entity.FamilyEVM {
			return outcome{}, exchangeerr.New(exchangeerr.KindUnsupportedFamily, exchangeerr.StepBuild, fam,
				fmt.Errorf("token approval is not available on %s", txFamily))
		}

		value, err := atomicAmount(req.Amount, account.Currency, fam)
		if err != nil {
			return outcome{}, err
		}
		data, err := approveABI().Pack("approve", common.HexToAddress(req.SmartContractAddress), value.BigInt())
		if err != nil {
			return outcome{}, fmt.Errorf("encode approve call: %w", err)
		}

		tx, err := txbuilder.Build(txbuilder.Params{
			Family:                     txFamily,
			Amount:                     decimal.Zero,
			Recipient:                  account.Currency.Contract,
			ExtraTransactionParameters: hexutil.Encode(data),
		})
		if err != nil {
			return outcome{}, exchangeerr.Classify(err, exchangeerr.StepBuild, fam)
		}

		begin()
		hash, err := s.host.SignAndBroadcast(ctx, account.Account.ID, tx)
		if err != nil {
			return outcome{}, exchangeerr.Classify(err, exchangeerr.StepSignature, fam)
		}
		return outcome{exchangeID: req.OrderID, transactionID: hash}, nil
	})
	if err != nil {
		return entity.TokenApprovalResult{}, err
	}
	return entity.TokenApprovalResult{OrderID: out.exchangeID, TransactionHash: out.transactionID}, nil
}

// RequestAndSignForAccount lets the user pick an account holding one of CurrencyIDs, then signs
// and broadcasts a transfer of Amount to Recipient from it.
func (s *exchangeService) RequestAndSignForAccount(ctx context.Context, req entity.RequestAndSignRequest) (entity.RequestAndSignResult, error) {
	fam := exchangeerr.FamilyGeneric

	account, err := s.host.RequestAccount(ctx, lo.Uniq(req.CurrencyIDs))
	if err != nil {
		classified := exchangeerr.Classify(err, exchangeerr.StepListAccount, fam)
		s.logger.Error("Account request failed", "error", classified)
		if exchangeerr.ShouldReport(classified) {
			s.report(ctx, classified)
		}
		return entity.RequestAndSignResult{}, classified
	}

	var hash string
	_, err = s.observe(ctx, requestAndSign, func(begin func()) (outcome, error) {
		currency, err := s.resolver.ResolveCurrency(ctx, account.Currency, fam)
		if err != nil {
			return outcome{}, err
		}

		atomic, err := atomicAmount(req.Amount, currency, fam)
		if err != nil {
			return outcome{}, err
		}
		if account.SpendableBalance.LessThan(atomic) {
			return outcome{}, exchangeerr.New(exchangeerr.KindInsufficientFunds, exchangeerr.StepCheckFunds, fam,
				fmt.Errorf("spendable balance %s is lower than %s", account.SpendableBalance, atomic))
		}

		txFamily, err := s.resolver.ResolveFamily(ctx, currency, fam)
		if err != nil {
			return outcome{}, err
		}
		tx, err := txbuilder.Build(txbuilder.Params{
			Family:          txFamily,
			Amount:          atomic,
			Recipient:       req.Recipient,
			CustomFeeConfig: req.CustomFeeConfig,
			PayinExtraID:    req.PayinExtraID,
		})
		if err != nil {
			return outcome{}, exchangeerr.Classify(err, exchangeerr.StepBuild, fam)
		}

		begin()
		hash, err = s.host.SignAndBroadcast(ctx, account.ID, tx)
		if err != nil {
			return outcome{}, exchangeerr.Classify(err, exchangeerr.StepSignature, fam)
		}
		return outcome{exchangeID: account.ID, transactionID: hash}, nil
	})
	if err != nil {
		return entity.RequestAndSignResult{}, err
	}
	return entity.RequestAndSignResult{Account: account, TransactionHash: hash}, nil
}
