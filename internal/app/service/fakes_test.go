package service

import (
	"context"
	"errors"
	"sync"

	"exchange_sdk/internal/app/port"
	"exchange_sdk/internal/domain/entity"
)

type fakeHost struct {
	mu sync.Mutex

	accounts        []entity.Account
	currencies      map[string]entity.Currency
	listAccountsErr error
	listCurrencyErr error

	nonce    string
	startErr error

	txHash      string
	completeErr error

	requestedAccount entity.Account
	requestErr       error

	storage    map[string]string
	storageErr error

	userID   string
	tracking bool

	calls     []string
	started   []port.StartExchangeParams
	completed []port.CompleteExchangeParams
	signed    []entity.Transaction
	reports   []port.ErrorReport
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		currencies: map[string]entity.Currency{},
		storage:    map[string]string{},
		nonce:      "b3f1df21-1111-2222-3333-444455556666",
		txHash:     "MOCK_TRANSACTION_HASH",
		userID:     "user-1",
	}
}

func (h *fakeHost) record(method string) {
	h.mu.Lock()
	h.calls = append(h.calls, method)
	h.mu.Unlock()
}

func (h *fakeHost) count(method string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, c := range h.calls {
		if c == method {
			n++
		}
	}
	return n
}

func (h *fakeHost) ListAccounts(context.Context) ([]entity.Account, error) {
	h.record("account.list")
	return h.accounts, h.listAccountsErr
}

func (h *fakeHost) ListCurrencies(_ context.Context, ids []string) ([]entity.Currency, error) {
	h.record("currency.list")
	if h.listCurrencyErr != nil {
		return nil, h.listCurrencyErr
	}
	var out []entity.Currency
	for _, id := range ids {
		if c, ok := h.currencies[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (h *fakeHost) StartExchange(_ context.Context, p port.StartExchangeParams) (string, error) {
	h.record("exchange.start")
	h.mu.Lock()
	h.started = append(h.started, p)
	h.mu.Unlock()
	return h.nonce, h.startErr
}

func (h *fakeHost) complete(method string, p port.CompleteExchangeParams) (string, error) {
	h.record(method)
	h.mu.Lock()
	h.completed = append(h.completed, p)
	h.mu.Unlock()
	if h.completeErr != nil {
		return "", h.completeErr
	}
	return h.txHash, nil
}

func (h *fakeHost) CompleteSwap(_ context.Context, p port.CompleteExchangeParams) (string, error) {
	return h.complete("exchange.completeSwap", p)
}

func (h *fakeHost) CompleteSell(_ context.Context, p port.CompleteExchangeParams) (string, error) {
	return h.complete("exchange.completeSell", p)
}

func (h *fakeHost) CompleteFund(_ context.Context, p port.CompleteExchangeParams) (string, error) {
	return h.complete("exchange.completeFund", p)
}

func (h *fakeHost) ReportError(_ context.Context, r port.ErrorReport) error {
	h.record("report")
	h.mu.Lock()
	h.reports = append(h.reports, r)
	h.mu.Unlock()
	return nil
}

func (h *fakeHost) RequestAccount(context.Context, []string) (entity.Account, error) {
	h.record("account.request")
	return h.requestedAccount, h.requestErr
}

func (h *fakeHost) SignAndBroadcast(_ context.Context, _ string, tx entity.Transaction) (string, error) {
	h.record("transaction.signAndBroadcast")
	h.mu.Lock()
	h.signed = append(h.signed, tx)
	h.mu.Unlock()
	if h.completeErr != nil {
		return "", h.completeErr
	}
	return h.txHash, nil
}

func (h *fakeHost) StorageGet(_ context.Context, key string) (string, bool, error) {
	h.record("storage.get")
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.storageErr != nil {
		return "", false, h.storageErr
	}
	v, ok := h.storage[key]
	return v, ok, nil
}

func (h *fakeHost) StorageSet(_ context.Context, key, value string) error {
	h.record("storage.set")
	h.mu.Lock()
	defer h.mu.Unlock()
	h.storage[key] = value
	return nil
}

func (h *fakeHost) UserID(context.Context) (string, error) {
	h.record("wallet.userId")
	return h.userID, nil
}

func (h *fakeHost) WalletInfo(context.Context) (entity.WalletInfo, error) {
	h.record("wallet.info")
	return entity.WalletInfo{Tracking: h.tracking}, nil
}

type fakeGateway struct {
	mu sync.Mutex

	payload    entity.Payload
	payloadErr error
	confirmErr error
	cancelErr  error
	requests   []entity.PayloadRequest
	confirmed  []entity.ConfirmRequest
	cancelled  []entity.CancelRequest
}

func (g *fakeGateway) RetrievePayload(_ context.Context, req entity.PayloadRequest) (entity.Payload, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.payloadErr != nil {
		return entity.Payload{}, g.payloadErr
	}
	return g.payload, nil
}

func (g *fakeGateway) Confirm(_ context.Context, req entity.ConfirmRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.confirmed = append(g.confirmed, req)
	return g.confirmErr
}

func (g *fakeGateway) Cancel(_ context.Context, req entity.CancelRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cancelled = append(g.cancelled, req)
	return g.cancelErr
}

type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}

type recordingTracker struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingTracker) TrackEvent(_ context.Context, name string, _ map[string]any) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

var errBoom = errors.New("boom")
