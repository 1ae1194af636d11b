package txbuilder

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"exchange_sdk/internal/domain/entity"
	"exchange_sdk/internal/domain/exchangeerr"

	"github.com/ethereum/go-ethereum/common"
)

func defaultShape(p Params, fees map[string]any) entity.Transaction {
	return entity.Transaction{
		Family:    p.Family,
		Amount:    p.Amount,
		Recipient: p.Recipient,
		Fields:    fees,
	}
}

func withoutGasLimit(p Params, fees map[string]any) (entity.Transaction, error) {
	delete(fees, "gasLimit")

	recipient := p.Recipient
	if common.IsHexAddress(recipient) {
		recipient = common.HexToAddress(recipient).Hex()
	}

	if p.ExtraTransactionParameters == "" {
		tx := defaultShape(p, fees)
		tx.Recipient = recipient
		return tx, nil
	}

	data, err := hex.DecodeString(strings.TrimPrefix(p.ExtraTransactionParameters, "0x"))
	if err != nil {
		return entity.Transaction{}, &exchangeerr.Error{
			Kind:  exchangeerr.KindPayloadRetrieval,
			Step:  exchangeerr.StepPayload,
			Cause: fmt.Errorf("decode extra transaction parameters: %w", err),
		}
	}
	return entity.Transaction{
		Family:    p.Family,
		Amount:    p.Amount,
		Recipient: recipient,
		Fields:    map[string]any{"data": data},
	}, nil
}

func modeSend(p Params, fees map[string]any) entity.Transaction {
	tx := defaultShape(p, fees)
	tx.Fields["mode"] = "send"
	return tx
}

func cosmos(p Params, fees map[string]any) entity.Transaction {
	tx := modeSend(p, fees)
	if p.PayinExtraID != "" {
		tx.Fields["memo"] = p.PayinExtraID
	}
	return tx
}

func stellar(p Params, fees map[string]any) (entity.Transaction, error) {
	if p.PayinExtraID == "" {
		return entity.Transaction{}, missingMemo(p.Family, "memo is required")
	}
	tx := defaultShape(p, fees)
	tx.Fields["memoType"] = "MEMO_TEXT"
	tx.Fields["memoValue"] = p.PayinExtraID
	return tx, nil
}

func ripple(p Params, fees map[string]any) (entity.Transaction, error) {
	if p.PayinExtraID == "" {
		return entity.Transaction{}, missingMemo(p.Family, "destination tag is required")
	}
	tag, err := strconv.ParseUint(p.PayinExtraID, 10, 32)
	if err != nil {
		return entity.Transaction{}, missingMemo(p.Family, fmt.Sprintf("destination tag %q is not a 32-bit integer", p.PayinExtraID))
	}
	tx := defaultShape(p, fees)
	tx.Fields["tag"] = uint32(tag)
	return tx, nil
}

func hedera(p Params, fees map[string]any) entity.Transaction {
	tx := defaultShape(p, fees)
	if p.PayinExtraID != "" {
		tx.Fields["memo"] = p.PayinExtraID
	}
	return tx
}

func ton(p Params, fees map[string]any) entity.Transaction {
	tx := defaultShape(p, fees)
	if p.PayinExtraID != "" {
		tx.Fields["comment"] = map[string]any{
			"isEncrypted": false,
			"text":        p.PayinExtraID,
		}
	}
	return tx
}
