package model

// OutputRecord is one flat, analytics-ready row. Passthrough fields are
// always set; decoded fields are populated only for the matching event
// kind and stay null otherwise. uint256 values are base-10 strings,
// never floats, so amounts survive storage round-trips exactly.
//
// ExecutedRelayerRefundRoot logs expand into one record per refund pair;
// RefundIndex keeps those rows distinct under the same
// (chain_id, tx_hash, log_index).
type OutputRecord struct {
	ChainID     uint64    `json:"chain_id"`
	BlockNumber uint64    `json:"block_number"`
	BlockHash   string    `json:"block_hash,omitempty"`
	TxHash      string    `json:"tx_hash"`
	TxIndex     uint64    `json:"tx_index,omitempty"`
	LogIndex    uint64    `json:"log_index"`
	Address     string    `json:"address,omitempty"`
	Timestamp   uint64    `json:"timestamp"`
	EventKind   EventKind `json:"event_kind"`

	// Indexed topic fields.
	OriginChainID      *string `json:"origin_chain_id,omitempty"`
	DestinationChainID *string `json:"destination_chain_id,omitempty"`
	RefundChainID      *string `json:"refund_chain_id,omitempty"`
	DepositID          *string `json:"deposit_id,omitempty"`
	Relayer            *string `json:"relayer,omitempty"`
	Depositor          *string `json:"depositor,omitempty"`
	RootBundleID       *string `json:"root_bundle_id,omitempty"`
	LeafID             *string `json:"leaf_id,omitempty"`

	// Fields shared by the deposit and fill kinds.
	InputToken          *string `json:"input_token,omitempty"`
	OutputToken         *string `json:"output_token,omitempty"`
	InputAmount         *string `json:"input_amount,omitempty"`
	OutputAmount        *string `json:"output_amount,omitempty"`
	FillDeadline        *uint32 `json:"fill_deadline,omitempty"`
	ExclusivityDeadline *uint32 `json:"exclusivity_deadline,omitempty"`
	Recipient           *string `json:"recipient,omitempty"`
	ExclusiveRelayer    *string `json:"exclusive_relayer,omitempty"`

	// FilledRelay only.
	RepaymentChainID    *string `json:"repayment_chain_id,omitempty"`
	MessageHash         *string `json:"message_hash,omitempty"`
	UpdatedRecipient    *string `json:"updated_recipient,omitempty"`
	UpdatedMessageHash  *string `json:"updated_message_hash,omitempty"`
	UpdatedOutputAmount *string `json:"updated_output_amount,omitempty"`
	FillType            *uint8  `json:"fill_type,omitempty"`

	// FundsDeposited only.
	QuoteTimestamp *uint32 `json:"quote_timestamp,omitempty"`
	Message        *string `json:"message,omitempty"`

	// ExecutedRelayerRefundRoot only.
	AmountToReturn  *string `json:"amount_to_return,omitempty"`
	L2TokenAddress  *string `json:"l2_token_address,omitempty"`
	DeferredRefunds *bool   `json:"deferred_refunds,omitempty"`
	Caller          *string `json:"caller,omitempty"`
	RefundAddress   *string `json:"refund_address,omitempty"`
	RefundAmount    *string `json:"refund_amount,omitempty"`
	RefundIndex     *uint32 `json:"refund_index,omitempty"`
}

// RowIndex returns the refund index or 0, the discriminator storage
// backends key expanded rows on.
func (r OutputRecord) RowIndex() uint32 {
	if r.RefundIndex == nil {
		return 0
	}
	return *r.RefundIndex
}
