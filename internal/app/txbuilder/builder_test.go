package txbuilder

import (
	"testing"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func params(f entity.Family) Params {
	return Params{
		Family:    f,
		Amount:    decimal.NewFromInt(1000),
		Recipient: "recipient",
		CustomFeeConfig: map[string]any{
			"gasLimit":     "21000",
			"gasPrice":     "10",
			"utxoStrategy": "merge",
		},
	}
}

func TestBuild_DefaultSpreadsFees(t *testing.T) {
	tx, err := Build(params(entity.FamilySolana))
	require.NoError(t, err)

	assert.Equal(t, entity.FamilySolana, tx.Family)
	assert.Equal(t, "1000", tx.Amount.String())
	assert.Equal(t, "recipient", tx.Recipient)
	assert.Equal(t, "10", tx.Fields["gasPrice"])
	assert.Equal(t, "21000", tx.Fields["gasLimit"])
}

func TestBuild_DoesNotMutateFeeConfig(t *testing.T) {
	p := params(entity.FamilyEthereum)
	_, err := Build(p)
	require.NoError(t, err)

	_, err = Build(params(entity.FamilyBitcoin))
	require.NoError(t, err)

	assert.Contains(t, p.CustomFeeConfig, "gasLimit")
	assert.Contains(t, p.CustomFeeConfig, "utxoStrategy")
}

func TestBuild_WithoutGasLimit(t *testing.T) {
	p := params(entity.FamilyEVM)
	p.Recipient = "0x52908400098527886e0f7030069857d2e4169ee7"

	tx, err := Build(p)
	require.NoError(t, err)

	_, hasGasLimit := tx.Field("gasLimit")
	assert.False(t, hasGasLimit)
	assert.Equal(t, "10", tx.Fields["gasPrice"])
	assert.Equal(t, "0x52908400098527886E0F7030069857D2E4169EE7", tx.Recipient)
}

func TestBuild_WithoutGasLimitExtraParameters(t *testing.T) {
	p := params(entity.FamilyEthereum)
	p.ExtraTransactionParameters = "0xdeadbeef"

	tx, err := Build(p)
	require.NoError(t, err)

	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, tx.Fields["data"])
	_, hasGasPrice := tx.Field("gasPrice")
	assert.False(t, hasGasPrice)
}

func TestBuild_ModeSend(t *testing.T) {
	for _, f := range []entity.Family{entity.FamilyCardano, entity.FamilyPolkadot, entity.FamilyTezos, entity.FamilyCosmos} {
		tx, err := Build(params(f))
		require.NoError(t, err, f)
		assert.Equal(t, "send", tx.Fields["mode"], f)
	}
}

func TestBuild_UTXOStrategyRemoved(t *testing.T) {
	tx, err := Build(params(entity.FamilyBitcoin))
	require.NoError(t, err)

	_, ok := tx.Field("utxoStrategy")
	assert.False(t, ok)
}

func TestBuild_Memos(t *testing.T) {
	tests := []struct {
		name   string
		family entity.Family
		extra  string
		key    string
		want   any
	}{
		{"stellar", entity.FamilyStellar, "memo-1", "memoValue", "memo-1"},
		{"ripple", entity.FamilyRipple, "123456", "tag", uint32(123456)},
		{"cosmos", entity.FamilyCosmos, "memo-2", "memo", "memo-2"},
		{"hedera", entity.FamilyHedera, "memo-3", "memo", "memo-3"},
		{"ton", entity.FamilyTon, "hello", "comment", map[string]any{"isEncrypted": false, "text": "hello"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := params(tt.family)
			p.PayinExtraID = tt.extra

			tx, err := Build(p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, tx.Fields[tt.key])
		})
	}
}

func TestBuild_StellarMemoType(t *testing.T) {
	p := params(entity.FamilyStellar)
	p.PayinExtraID = "memo"

	tx, err := Build(p)
	require.NoError(t, err)
	assert.Equal(t, "MEMO_TEXT", tx.Fields["memoType"])
}

func TestBuild_RequiredMemoMissing(t *testing.T) {
	for _, f := range []entity.Family{entity.FamilyStellar, entity.FamilyRipple} {
		_, err := Build(params(f))
		assert.True(t, exchangeerr.Is(err, exchangeerr.KindMissingRequiredMemo), f)
	}
}

func TestBuild_RippleTagNotNumeric(t *testing.T) {
	p := params(entity.FamilyRipple)
	p.PayinExtraID = "abc"

	_, err := Build(p)
	assert.True(t, exchangeerr.Is(err, exchangeerr.KindMissingRequiredMemo))
}

func TestBuild_OptionalMemoOmitted(t *testing.T) {
	for _, tc := range []struct {
		family entity.Family
		key    string
	}{
		{entity.FamilyCosmos, "memo"},
		{entity.FamilyHedera, "memo"},
		{entity.FamilyTon, "comment"},
	} {
		tx, err := Build(params(tc.family))
		require.NoError(t, err)
		_, ok := tx.Field(tc.key)
		assert.False(t, ok, tc.family)
	}
}

func TestBuild_UnsupportedFamily(t *testing.T) {
	_, err := Build(params(entity.Family("dogechain")))

	e, ok := exchangeerr.As(err)
	require.True(t, ok)
	assert.Equal(t, exchangeerr.KindUnsupportedFamily, e.Kind)
}

func TestBuild_EveryKnownFamilyIsShaped(t *testing.T) {
	for _, f := range entity.AllFamilies() {
		p := params(f)
		p.PayinExtraID = "1"
		_, err := Build(p)
		assert.NoError(t, err, f)
		assert.True(t, Supports(f))
	}
	assert.False(t, Supports("dogechain"))
}

func TestTransactionMarshalIsFlat(t *testing.T) {
	p := params(entity.FamilyCardano)
	tx, err := Build(p)
	require.NoError(t, err)

	raw, err := tx.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"family":"cardano","amount":"1000","recipient":"recipient","mode":"send","gasLimit":"21000","gasPrice":"10","utxoStrategy":"merge"}`, string(raw))
}

func TestBuild_FractionalAmountRejected(t *testing.T) {
	p := params(entity.FamilyBitcoin)
	p.Amount = decimal.RequireFromString("1.5")

	_, err := Build(p)
	assert.True(t, exchangeerr.Is(err, exchangeerr.KindInvalidRequest))
}

func TestTransactionMarshalRejectsFractionalAmount(t *testing.T) {
	tx := entity.Transaction{Family: entity.FamilyBitcoin, Amount: decimal.RequireFromString("1.5"), Recipient: "bc1qpayin"}

	_, err := tx.MarshalJSON()
	require.Error(t, err)

	tx.Amount = decimal.NewFromInt(150000000)
	raw, err := tx.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"family":"bitcoin","amount":"150000000","recipient":"bc1qpayin"}`, string(raw))
}

func TestBuild_InvalidExtraParameters(t *testing.T) {
	p := params(entity.FamilyEthereum)
	p.ExtraTransactionParameters = "zz"

	_, err := Build(p)
	assert.True(t, exchangeerr.Is(err, exchangeerr.KindPayloadRetrieval))
}
