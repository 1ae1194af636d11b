package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/app/txbuilder"
	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"
	"exchange_sdk/internal/pkg/metrics"
	"exchange_sdk/internal/pkg/utils"

	"github.com/shopspring/decimal"
)

// ExchangeConfig holds the per-instance settings of the exchange flows.
type ExchangeConfig struct {
	Provider       string
	SwapAppVersion string
	// SwapErrors selects the code namespace of swap failures. Sell, fund and token approval
	// always use the generic namespace.
	SwapErrors exchangeerr.Family
}

// Gateways bundles one backend gateway per exchange type.
type Gateways struct {
	Swap port.BackendGateway
	Sell port.BackendGateway
	Fund port.BackendGateway
}

type exchangeService struct {
	cfg      ExchangeConfig
	host     port.HostWallet
	gateways Gateways
	resolver port.AccountResolver
	tracker  port.Tracker
	metrics  *metrics.Recorder
	logger   port.Logger
	now      func() time.Time
}

// NewExchangeService creates the exchange orchestrator. tracker and recorder may be nil.
func NewExchangeService(
	cfg ExchangeConfig,
	host port.HostWallet,
	gateways Gateways,
	resolver port.AccountResolver,
	tracker port.Tracker,
	recorder *metrics.Recorder,
	l port.Logger,
	now func() time.Time,
) port.ExchangeService {
	if now == nil {
		now = time.Now
	}
	if cfg.SwapErrors == "" {
		cfg.SwapErrors = exchangeerr.FamilyGeneric
	}
	return &exchangeService{
		cfg:      cfg,
		host:     host,
		gateways: gateways,
		resolver: resolver,
		tracker:  tracker,
		metrics:  recorder,
		logger:   l,
		now:      now,
	}
}

// flow describes one backend-backed exchange. Swap, sell and fund only differ in the values
// they put here.
type flow struct {
	exchangeType    entity.ExchangeType
	family          exchangeerr.Family
	gateway         port.BackendGateway
	fromAccountID   string
	toAccountID     string
	amount          decimal.Decimal
	feeStrategy     entity.FeeStrategy
	customFeeConfig map[string]any
	quoteID         string
	productType     entity.ProductType
	toFiat          string
	rate            *float64
	toNewTokenID    string
	// checkAmount rejects payloads whose echoed amount differs from amount.
	checkAmount bool
	complete    func(ctx context.Context, params port.CompleteExchangeParams) (string, error)
}

// outcome is what a successful flow produced.
type outcome struct {
	exchangeID    string
	transactionID string
}

// run drives one exchange through resolution, funds check, nonce, payload, build, signature
// and confirmation. Steps are sequential; each failure compensates according to how far the
// flow got. begin is called right before the host is asked to start the exchange.
func (s *exchangeService) run(ctx context.Context, f flow, begin func()) (outcome, error) {
	from, err := s.resolver.Resolve(ctx, f.fromAccountID, f.family)
	if err != nil {
		return outcome{}, err
	}

	var to *entity.ResolvedAccount
	if f.toAccountID != "" {
		resolved, err := s.resolver.Resolve(ctx, f.toAccountID, f.family)
		if err != nil {
			return outcome{}, err
		}
		to = &resolved
	}

	atomic, err := atomicAmount(f.amount, from.Currency, f.family)
	if err != nil {
		s.logger.Warn("Amount rejected", "exchangeType", f.exchangeType, "amount", f.amount.String(), "error", err)
		return outcome{}, err
	}
	if from.Account.SpendableBalance.LessThan(atomic) {
		s.logger.Warn("Not enough funds",
			"exchangeType", f.exchangeType,
			"accountId", from.Account.ID,
			"spendable", utils.FormatAtomic(from.Account.SpendableBalance, from.Currency.Decimals),
			"required", f.amount.String())
		return outcome{}, exchangeerr.New(exchangeerr.KindInsufficientFunds, exchangeerr.StepCheckFunds, f.family,
			fmt.Errorf("spendable balance %s is lower than %s", from.Account.SpendableBalance, atomic))
	}

	txFamily, err := s.resolver.ResolveFamily(ctx, from.Currency, f.family)
	if err != nil {
		return outcome{}, err
	}
	if !txbuilder.Supports(txFamily) {
		return outcome{}, exchangeerr.New(exchangeerr.KindUnsupportedFamily, exchangeerr.StepBuild, f.family,
			fmt.Errorf("no transaction shape for family %q", txFamily))
	}

	begin()

	nonce, err := s.host.StartExchange(ctx, port.StartExchangeParams{
		ExchangeType:  f.exchangeType,
		Provider:      s.cfg.Provider,
		FromAccountID: f.fromAccountID,
		ToAccountID:   f.toAccountID,
		TokenCurrency: f.toNewTokenID,
	})
	if err != nil {
		s.logger.Error("Failed to start exchange", "exchangeType", f.exchangeType, "error", err)
		return outcome{}, exchangeerr.Classify(err, exchangeerr.StepNonce, f.family)
	}

	payload, err := f.gateway.RetrievePayload(ctx, entity.PayloadRequest{
		Provider:            s.cfg.Provider,
		DeviceTransactionID: nonce,
		QuoteID:             f.quoteID,
		ProductType:         f.productType,
		FromAccount:         from,
		ToAccount:           to,
		FromAmount:          f.amount,
		FromAmountAtomic:    atomic,
		ToFiat:              f.toFiat,
		Rate:                f.rate,
		ToNewTokenID:        f.toNewTokenID,
	})
	if err != nil {
		// No exchange id exists yet, so there is nothing to cancel.
		s.logger.Error("Failed to retrieve payload", "exchangeType", f.exchangeType, "error", err)
		return outcome{}, exchangeerr.Classify(err, exchangeerr.StepPayload, f.family)
	}

	if f.checkAmount && payload.Amount != nil && !payload.Amount.Equal(f.amount) {
		mismatch := exchangeerr.New(exchangeerr.KindAmountMismatch, exchangeerr.StepAmountMismatch, f.family,
			fmt.Errorf("backend amount %s differs from requested %s", payload.Amount, f.amount))
		s.cancelBestEffort(ctx, f, payload.ID, mismatch)
		return outcome{}, mismatch
	}

	tx, err := txbuilder.Build(txbuilder.Params{
		Family:                     txFamily,
		Amount:                     atomic,
		Recipient:                  payload.PayinAddress,
		CustomFeeConfig:            f.customFeeConfig,
		PayinExtraID:               payload.PayinExtraID,
		ExtraTransactionParameters: payload.ExtraTransactionParameters,
	})
	if err != nil {
		buildErr := exchangeerr.Classify(err, exchangeerr.StepBuild, f.family)
		s.logger.Error("Failed to build transaction", "exchangeType", f.exchangeType, "family", txFamily, "error", buildErr)
		s.cancelBestEffort(ctx, f, payload.ID, buildErr)
		return outcome{}, buildErr
	}

	transactionID, err := f.complete(ctx, port.CompleteExchangeParams{
		Provider:      s.cfg.Provider,
		FromAccountID: f.fromAccountID,
		ToAccountID:   f.toAccountID,
		Transaction:   tx,
		BinaryPayload: payload.BinaryPayload,
		Signature:     payload.Signature,
		FeeStrategy:   f.feeStrategy,
		ExchangeID:    payload.ID,
		Rate:          f.rate,
		ToNewTokenID:  f.toNewTokenID,
	})
	if err != nil {
		return outcome{}, s.signatureFailed(ctx, f, payload.ID, err)
	}

	s.confirm(ctx, f, payload.ID, transactionID)
	return outcome{exchangeID: payload.ID, transactionID: transactionID}, nil
}

// signatureFailed cancels the backend record after a failed completion call. The disabled
// broadcast host error skips the cancel and is returned untouched.
func (s *exchangeService) signatureFailed(ctx context.Context, f flow, exchangeID string, err error) error {
	if exchangeerr.IsDisabledBroadcast(err) {
		s.logger.Warn("Broadcast disabled by host, skipping cancel", "exchangeType", f.exchangeType, "exchangeId", exchangeID)
		return err
	}

	step := exchangeerr.StepSignature
	if exchangeerr.HostErrorName(err) == exchangeerr.HostRefusedOnDevice {
		step = exchangeerr.StepIgnoredSignature
	}
	sigErr := exchangeerr.Classify(err, step, f.family)

	cancelErr := f.gateway.Cancel(ctx, entity.CancelRequest{
		Provider:     s.cfg.Provider,
		ID:           exchangeID,
		StatusCode:   codeOf(sigErr),
		ErrorMessage: err.Error(),
	})
	if cancelErr != nil {
		s.logger.Error("Failed to cancel exchange after signature failure",
			"exchangeType", f.exchangeType, "exchangeId", exchangeID, "error", cancelErr, "cause", err)
		return exchangeerr.NewCancel(cancelErr, sigErr, f.family)
	}

	s.logger.Error("Exchange signature failed, backend record cancelled",
		"exchangeType", f.exchangeType, "exchangeId", exchangeID, "step", step, "error", err)
	return sigErr
}

// cancelBestEffort cancels a backend record the flow will not complete. Failures are logged only.
func (s *exchangeService) cancelBestEffort(ctx context.Context, f flow, exchangeID string, cause error) {
	err := f.gateway.Cancel(ctx, entity.CancelRequest{
		Provider:     s.cfg.Provider,
		ID:           exchangeID,
		StatusCode:   codeOf(cause),
		ErrorMessage: cause.Error(),
	})
	if err != nil {
		s.logger.Warn("Failed to cancel abandoned exchange", "exchangeType", f.exchangeType, "exchangeId", exchangeID, "error", err)
	}
}

// confirm marks the backend record accepted. The transaction is already broadcast, so a
// failure is reported to the host and logged but does not fail the flow.
func (s *exchangeService) confirm(ctx context.Context, f flow, exchangeID, transactionID string) {
	req := entity.ConfirmRequest{
		Provider:      s.cfg.Provider,
		ID:            exchangeID,
		TransactionID: transactionID,
	}
	if f.exchangeType == entity.ExchangeSwap {
		req.AppVersion = s.cfg.SwapAppVersion
	}

	if err := f.gateway.Confirm(ctx, req); err != nil {
		confirmErr := exchangeerr.Classify(err, exchangeerr.StepConfirm, f.family)
		s.logger.Error("Failed to confirm exchange",
			"exchangeType", f.exchangeType, "exchangeId", exchangeID, "transactionId", transactionID, "error", confirmErr)
		s.report(ctx, confirmErr)
	}
}

// observe runs fn as one measured and reported exchange. Tracking events are only sent once fn
// calls begin, so requests rejected during resolution never reach the tracking channel.
func (s *exchangeService) observe(ctx context.Context, t entity.ExchangeType, fn func(begin func()) (outcome, error)) (outcome, error) {
	started := s.now()
	begun := false
	begin := func() {
		begun = true
		s.track(ctx, EventExchangeStarted, map[string]any{"exchangeType": string(t)})
	}

	out, err := fn(begin)
	if err != nil {
		code := codeOf(err)
		s.metrics.ObserveExchange(string(t), "failure", code, started)
		s.logger.Error("Exchange failed", "exchangeType", t, "code", code, "step", stepOf(err), "error", err)
		if exchangeerr.ShouldReport(err) {
			s.report(ctx, err)
		}
		if begun {
			s.track(ctx, EventExchangeFailed, map[string]any{"exchangeType": string(t), "code": code, "step": stepOf(err)})
		}
		return outcome{}, err
	}

	s.metrics.ObserveExchange(string(t), "success", "", started)
	s.logger.Info("Exchange completed", "exchangeType", t, "exchangeId", out.exchangeID, "transactionId", out.transactionID)
	s.track(ctx, EventExchangeCompleted, map[string]any{
		"exchangeType":  string(t),
		"exchangeId":    out.exchangeID,
		"transactionId": out.transactionID,
	})
	return out, nil
}

// report forwards err to the host's exchange error channel. Failures are logged only.
func (s *exchangeService) report(ctx context.Context, err error) {
	report := port.ErrorReport{Message: err.Error()}
	if e, ok := exchangeerr.As(err); ok {
		report.Code = e.Code
		report.Step = string(e.Step)
		report.Kind = string(e.Kind)
	}
	if reportErr := s.host.ReportError(ctx, report); reportErr != nil {
		s.logger.Warn("Failed to report error to host", "code", report.Code, "error", reportErr)
	}
}

func (s *exchangeService) track(ctx context.Context, name string, props map[string]any) {
	if s.tracker == nil {
		return
	}
	s.tracker.TrackEvent(ctx, name, props)
}

// atomicAmount converts amount to the currency's smallest denomination. Amounts finer than that
// denomination are rejected rather than rounded.
func atomicAmount(amount decimal.Decimal, currency entity.Currency, fam exchangeerr.Family) (decimal.Decimal, error) {
	atomic := utils.ToAtomic(amount, currency.Decimals)
	if _, err := utils.AtomicBigInt(atomic); err != nil {
		return decimal.Zero, exchangeerr.New(exchangeerr.KindInvalidRequest, exchangeerr.StepValidate, fam,
			fmt.Errorf("%s allows %d decimals: %w", currency.ID, currency.Decimals, err))
	}
	return atomic, nil
}

func codeOf(err error) string {
	if e, ok := exchangeerr.As(err); ok {
		return e.Code
	}
	return ""
}

func stepOf(err error) string {
	if e, ok := exchangeerr.As(err); ok {
		return string(e.Step)
	}
	return ""
}

var errMissingGateway = errors.New("no backend gateway configured")
