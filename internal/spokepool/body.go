package spokepool

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/0xlong/across-analytics/internal/abiword"
	"github.com/0xlong/across-analytics/internal/model"
)

// filledRelayTailSlots is the slot count of a FilledRelay payload that
// carries the relay-execution tuple. Shorter payloads stop at the
// message hash and leave the tail fields unset.
const filledRelayTailSlots = 15

// decodeFilledRelay reads the FilledRelay payload. Slots 0..10 are
// mandatory; the relay-execution tuple at slots 11..14 is decoded only
// when the payload extends that far.
func decodeFilledRelay(topics [][]byte, data []byte) (*model.FilledRelayEvent, error) {
	ev := &model.FilledRelayEvent{}

	var err error
	if ev.OriginChainID, err = topicU256(topics[0]); err != nil {
		return nil, fmt.Errorf("origin_chain_id: %w", err)
	}
	if ev.DepositID, err = topicU256(topics[1]); err != nil {
		return nil, fmt.Errorf("deposit_id: %w", err)
	}
	if ev.Relayer, err = topicAddress(topics[2]); err != nil {
		return nil, fmt.Errorf("relayer: %w", err)
	}

	if ev.InputToken, err = addressAt(data, 0); err != nil {
		return nil, fmt.Errorf("input_token: %w", err)
	}
	if ev.OutputToken, err = addressAt(data, 1); err != nil {
		return nil, fmt.Errorf("output_token: %w", err)
	}
	if ev.InputAmount, err = u256At(data, 2); err != nil {
		return nil, fmt.Errorf("input_amount: %w", err)
	}
	if ev.OutputAmount, err = u256At(data, 3); err != nil {
		return nil, fmt.Errorf("output_amount: %w", err)
	}
	if ev.RepaymentChainID, err = u256At(data, 4); err != nil {
		return nil, fmt.Errorf("repayment_chain_id: %w", err)
	}
	if ev.FillDeadline, err = u32At(data, 5); err != nil {
		return nil, fmt.Errorf("fill_deadline: %w", err)
	}
	if ev.ExclusivityDeadline, err = u32At(data, 6); err != nil {
		return nil, fmt.Errorf("exclusivity_deadline: %w", err)
	}
	if ev.ExclusiveRelayer, err = addressAt(data, 7); err != nil {
		return nil, fmt.Errorf("exclusive_relayer: %w", err)
	}
	if ev.Depositor, err = addressAt(data, 8); err != nil {
		return nil, fmt.Errorf("depositor: %w", err)
	}
	if ev.Recipient, err = addressAt(data, 9); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	if ev.MessageHash, err = hashAt(data, 10); err != nil {
		return nil, fmt.Errorf("message_hash: %w", err)
	}

	if len(data) < filledRelayTailSlots*abiword.WordSize {
		return ev, nil
	}
	updatedRecipient, err := addressAt(data, 11)
	if err != nil {
		return nil, fmt.Errorf("updated_recipient: %w", err)
	}
	updatedMessageHash, err := hashAt(data, 12)
	if err != nil {
		return nil, fmt.Errorf("updated_message_hash: %w", err)
	}
	updatedOutputAmount, err := u256At(data, 13)
	if err != nil {
		return nil, fmt.Errorf("updated_output_amount: %w", err)
	}
	fillType, err := u8At(data, 14)
	if err != nil {
		return nil, fmt.Errorf("fill_type: %w", err)
	}
	ev.UpdatedRecipient = &updatedRecipient
	ev.UpdatedMessageHash = &updatedMessageHash
	ev.UpdatedOutputAmount = &updatedOutputAmount
	ev.FillType = &fillType
	return ev, nil
}

// decodeFundsDeposited reads the FundsDeposited payload: slots 0..8
// fixed fields plus a dynamic bytes message behind the offset at slot 9.
// A zero-length message leaves Message unset.
func decodeFundsDeposited(topics [][]byte, data []byte) (*model.FundsDepositedEvent, error) {
	ev := &model.FundsDepositedEvent{}

	var err error
	if ev.DestinationChainID, err = topicU256(topics[0]); err != nil {
		return nil, fmt.Errorf("destination_chain_id: %w", err)
	}
	if ev.DepositID, err = topicU256(topics[1]); err != nil {
		return nil, fmt.Errorf("deposit_id: %w", err)
	}
	if ev.Depositor, err = topicAddress(topics[2]); err != nil {
		return nil, fmt.Errorf("depositor: %w", err)
	}

	if ev.InputToken, err = addressAt(data, 0); err != nil {
		return nil, fmt.Errorf("input_token: %w", err)
	}
	if ev.OutputToken, err = addressAt(data, 1); err != nil {
		return nil, fmt.Errorf("output_token: %w", err)
	}
	if ev.InputAmount, err = u256At(data, 2); err != nil {
		return nil, fmt.Errorf("input_amount: %w", err)
	}
	if ev.OutputAmount, err = u256At(data, 3); err != nil {
		return nil, fmt.Errorf("output_amount: %w", err)
	}
	if ev.QuoteTimestamp, err = u32At(data, 4); err != nil {
		return nil, fmt.Errorf("quote_timestamp: %w", err)
	}
	if ev.FillDeadline, err = u32At(data, 5); err != nil {
		return nil, fmt.Errorf("fill_deadline: %w", err)
	}
	if ev.ExclusivityDeadline, err = u32At(data, 6); err != nil {
		return nil, fmt.Errorf("exclusivity_deadline: %w", err)
	}
	if ev.Recipient, err = addressAt(data, 7); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}
	if ev.ExclusiveRelayer, err = addressAt(data, 8); err != nil {
		return nil, fmt.Errorf("exclusive_relayer: %w", err)
	}

	message, err := abiword.DynamicBytesAt(data, 9)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	if len(message) > 0 {
		encoded := hexutil.Encode(message)
		ev.Message = &encoded
	}
	return ev, nil
}

// decodeRelayerRefund reads the ExecutedRelayerRefundRoot payload:
// scalar slots 0, 2, 4, 5 and the two parallel dynamic arrays behind
// the offsets at slots 1 and 3. The arrays must agree in length.
func decodeRelayerRefund(topics [][]byte, data []byte) (*model.RelayerRefundEvent, error) {
	ev := &model.RelayerRefundEvent{}

	var err error
	if ev.ChainID, err = topicU256(topics[0]); err != nil {
		return nil, fmt.Errorf("chain_id: %w", err)
	}
	if ev.RootBundleID, err = topicU256(topics[1]); err != nil {
		return nil, fmt.Errorf("root_bundle_id: %w", err)
	}
	if ev.LeafID, err = topicU256(topics[2]); err != nil {
		return nil, fmt.Errorf("leaf_id: %w", err)
	}

	if ev.AmountToReturn, err = u256At(data, 0); err != nil {
		return nil, fmt.Errorf("amount_to_return: %w", err)
	}
	amounts, err := abiword.U256ArrayAt(data, 1)
	if err != nil {
		return nil, fmt.Errorf("refund_amounts: %w", err)
	}
	if ev.L2TokenAddress, err = addressAt(data, 2); err != nil {
		return nil, fmt.Errorf("l2_token_address: %w", err)
	}
	addresses, err := abiword.AddressArrayAt(data, 3)
	if err != nil {
		return nil, fmt.Errorf("refund_addresses: %w", err)
	}
	if ev.DeferredRefunds, err = boolAt(data, 4); err != nil {
		return nil, fmt.Errorf("deferred_refunds: %w", err)
	}
	if ev.Caller, err = addressAt(data, 5); err != nil {
		return nil, fmt.Errorf("caller: %w", err)
	}

	if len(amounts) != len(addresses) {
		return nil, fmt.Errorf("%w: %d amounts vs %d addresses",
			ErrRefundArrayLengthMismatch, len(amounts), len(addresses))
	}

	ev.RefundAmounts = make([]string, 0, len(amounts))
	for _, amount := range amounts {
		ev.RefundAmounts = append(ev.RefundAmounts, amount.String())
	}
	ev.RefundAddresses = make([]string, 0, len(addresses))
	for _, addr := range addresses {
		ev.RefundAddresses = append(ev.RefundAddresses, strings.ToLower(addr.Hex()))
	}
	return ev, nil
}

// u256At decodes the word at slot as a base-10 unsigned integer string.
func u256At(data []byte, slot int) (string, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return "", err
	}
	value, err := abiword.U256(word)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// u32At decodes the word at slot as a uint32.
func u32At(data []byte, slot int) (uint32, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return 0, err
	}
	return abiword.U32(word)
}

// u8At decodes the word at slot as a uint8.
func u8At(data []byte, slot int) (uint8, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return 0, err
	}
	return abiword.U8(word)
}

// addressAt decodes the word at slot as a lowercase 0x-hex address.
func addressAt(data []byte, slot int) (string, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return "", err
	}
	addr, err := abiword.AddressOf(word)
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Hex()), nil
}

// hashAt decodes the word at slot as 0x-hex bytes32.
func hashAt(data []byte, slot int) (string, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return "", err
	}
	hash, err := abiword.Bytes32Of(word)
	if err != nil {
		return "", err
	}
	return hash.Hex(), nil
}

// boolAt decodes the word at slot as a boolean.
func boolAt(data []byte, slot int) (bool, error) {
	word, err := abiword.WordAt(data, slot)
	if err != nil {
		return false, err
	}
	return abiword.BoolOf(word)
}

// topicU256 renders an indexed topic word as a base-10 integer string.
func topicU256(word []byte) (string, error) {
	value, err := abiword.U256(word)
	if err != nil {
		return "", err
	}
	return value.String(), nil
}

// topicAddress renders an indexed topic word as a lowercase address.
func topicAddress(word []byte) (string, error) {
	addr, err := abiword.AddressOf(word)
	if err != nil {
		return "", err
	}
	return strings.ToLower(addr.Hex()), nil
}
