package model

// EventKind identifies which SpokePool event a log encodes. It is a
// pure function of topics[0]; data is never consulted.
type EventKind string

const (
	KindFilledRelay               EventKind = "FilledRelay"
	KindFundsDeposited            EventKind = "FundsDeposited"
	KindExecutedRelayerRefundRoot EventKind = "ExecutedRelayerRefundRoot"
	KindUnknown                   EventKind = "Unknown"
)

// FilledRelayEvent holds the decoded fields of a FilledRelay log.
// uint256 values are base-10 strings, addresses and hashes 0x-hex.
type FilledRelayEvent struct {
	OriginChainID string `json:"origin_chain_id"`
	DepositID     string `json:"deposit_id"`
	Relayer       string `json:"relayer"`

	InputToken          string `json:"input_token"`
	OutputToken         string `json:"output_token"`
	InputAmount         string `json:"input_amount"`
	OutputAmount        string `json:"output_amount"`
	RepaymentChainID    string `json:"repayment_chain_id"`
	FillDeadline        uint32 `json:"fill_deadline"`
	ExclusivityDeadline uint32 `json:"exclusivity_deadline"`
	ExclusiveRelayer    string `json:"exclusive_relayer"`
	Depositor           string `json:"depositor"`
	Recipient           string `json:"recipient"`
	MessageHash         string `json:"message_hash"`

	// Relay execution tail; absent on encodings that end at the
	// message hash slot.
	UpdatedRecipient    *string `json:"updated_recipient,omitempty"`
	UpdatedMessageHash  *string `json:"updated_message_hash,omitempty"`
	UpdatedOutputAmount *string `json:"updated_output_amount,omitempty"`
	FillType            *uint8  `json:"fill_type,omitempty"`
}

// FundsDepositedEvent holds the decoded fields of a FundsDeposited log.
type FundsDepositedEvent struct {
	DestinationChainID string `json:"destination_chain_id"`
	DepositID          string `json:"deposit_id"`
	Depositor          string `json:"depositor"`

	InputToken          string  `json:"input_token"`
	OutputToken         string  `json:"output_token"`
	InputAmount         string  `json:"input_amount"`
	OutputAmount        string  `json:"output_amount"`
	QuoteTimestamp      uint32  `json:"quote_timestamp"`
	FillDeadline        uint32  `json:"fill_deadline"`
	ExclusivityDeadline uint32  `json:"exclusivity_deadline"`
	Recipient           string  `json:"recipient"`
	ExclusiveRelayer    string  `json:"exclusive_relayer"`
	Message             *string `json:"message,omitempty"`
}

// RelayerRefundEvent holds the decoded fields of an
// ExecutedRelayerRefundRoot log before expansion. RefundAmounts and
// RefundAddresses are parallel arrays of equal length, pairwise one
// refund per relayer.
type RelayerRefundEvent struct {
	ChainID      string `json:"chain_id"`
	RootBundleID string `json:"root_bundle_id"`
	LeafID       string `json:"leaf_id"`

	AmountToReturn  string   `json:"amount_to_return"`
	RefundAmounts   []string `json:"refund_amounts"`
	L2TokenAddress  string   `json:"l2_token_address"`
	RefundAddresses []string `json:"refund_addresses"`
	DeferredRefunds bool     `json:"deferred_refunds"`
	Caller          string   `json:"caller"`
}

// DecodedLog is one classified and decoded log before flattening.
// Exactly the variant matching Kind is populated.
type DecodedLog struct {
	Kind EventKind `json:"kind"`
	Raw  RawLog    `json:"raw"`

	FilledRelay    *FilledRelayEvent    `json:"filled_relay,omitempty"`
	FundsDeposited *FundsDepositedEvent `json:"funds_deposited,omitempty"`
	RelayerRefund  *RelayerRefundEvent  `json:"relayer_refund,omitempty"`
}
