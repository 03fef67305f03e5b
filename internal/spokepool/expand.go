package spokepool

import (
	"github.com/0xlong/across-analytics/internal/model"
)

// Flatten turns one decoded log into its flat output rows. Deposit and
// fill logs map to exactly one row. Refund-root logs expand to one row
// per (relayer, amount) pair, or a single row with null refund columns
// when the arrays are empty. Logs without a populated variant yield no
// rows.
func Flatten(decoded *model.DecodedLog) []model.OutputRecord {
	base := baseRecord(decoded)
	switch decoded.Kind {
	case model.KindFilledRelay:
		if decoded.FilledRelay == nil {
			return nil
		}
		fillRelayColumns(&base, decoded.FilledRelay)
		return []model.OutputRecord{base}
	case model.KindFundsDeposited:
		if decoded.FundsDeposited == nil {
			return nil
		}
		fillDepositColumns(&base, decoded.FundsDeposited)
		return []model.OutputRecord{base}
	case model.KindExecutedRelayerRefundRoot:
		if decoded.RelayerRefund == nil {
			return nil
		}
		return expandRefunds(base, decoded.RelayerRefund)
	default:
		return nil
	}
}

// baseRecord copies the passthrough identifiers shared by every row of
// a log.
func baseRecord(decoded *model.DecodedLog) model.OutputRecord {
	raw := decoded.Raw
	return model.OutputRecord{
		ChainID:     raw.ChainID,
		BlockNumber: raw.BlockNumber,
		BlockHash:   raw.BlockHash,
		TxHash:      raw.TxHash,
		TxIndex:     raw.TxIndex,
		LogIndex:    raw.LogIndex,
		Address:     raw.Address,
		Timestamp:   raw.Timestamp,
		EventKind:   decoded.Kind,
	}
}

func fillRelayColumns(rec *model.OutputRecord, ev *model.FilledRelayEvent) {
	rec.OriginChainID = &ev.OriginChainID
	rec.DepositID = &ev.DepositID
	rec.Relayer = &ev.Relayer

	rec.InputToken = &ev.InputToken
	rec.OutputToken = &ev.OutputToken
	rec.InputAmount = &ev.InputAmount
	rec.OutputAmount = &ev.OutputAmount
	rec.RepaymentChainID = &ev.RepaymentChainID
	rec.FillDeadline = &ev.FillDeadline
	rec.ExclusivityDeadline = &ev.ExclusivityDeadline
	rec.ExclusiveRelayer = &ev.ExclusiveRelayer
	rec.Depositor = &ev.Depositor
	rec.Recipient = &ev.Recipient
	rec.MessageHash = &ev.MessageHash

	rec.UpdatedRecipient = ev.UpdatedRecipient
	rec.UpdatedMessageHash = ev.UpdatedMessageHash
	rec.UpdatedOutputAmount = ev.UpdatedOutputAmount
	rec.FillType = ev.FillType
}

func fillDepositColumns(rec *model.OutputRecord, ev *model.FundsDepositedEvent) {
	rec.DestinationChainID = &ev.DestinationChainID
	rec.DepositID = &ev.DepositID
	rec.Depositor = &ev.Depositor

	rec.InputToken = &ev.InputToken
	rec.OutputToken = &ev.OutputToken
	rec.InputAmount = &ev.InputAmount
	rec.OutputAmount = &ev.OutputAmount
	rec.QuoteTimestamp = &ev.QuoteTimestamp
	rec.FillDeadline = &ev.FillDeadline
	rec.ExclusivityDeadline = &ev.ExclusivityDeadline
	rec.Recipient = &ev.Recipient
	rec.ExclusiveRelayer = &ev.ExclusiveRelayer
	rec.Message = ev.Message
}

// expandRefunds produces the per-refund rows of one refund-root log.
// Scalar columns repeat on every row; RefundIndex disambiguates rows
// sharing a (chain_id, tx_hash, log_index) key.
func expandRefunds(base model.OutputRecord, ev *model.RelayerRefundEvent) []model.OutputRecord {
	base.RefundChainID = &ev.ChainID
	base.RootBundleID = &ev.RootBundleID
	base.LeafID = &ev.LeafID

	base.AmountToReturn = &ev.AmountToReturn
	base.L2TokenAddress = &ev.L2TokenAddress
	base.DeferredRefunds = &ev.DeferredRefunds
	base.Caller = &ev.Caller

	if len(ev.RefundAmounts) == 0 {
		return []model.OutputRecord{base}
	}

	rows := make([]model.OutputRecord, 0, len(ev.RefundAmounts))
	for i := range ev.RefundAmounts {
		row := base
		idx := uint32(i)
		row.RefundAddress = &ev.RefundAddresses[i]
		row.RefundAmount = &ev.RefundAmounts[i]
		row.RefundIndex = &idx
		rows = append(rows, row)
	}
	return rows
}
