package spokepool

import (
	"strings"

	"github.com/0xlong/across-analytics/internal/model"
)

// Protocol-global SpokePool event signature hashes, as observed in
// topics[0]. Across deployments share these across chains; per-chain
// config can override an entry when an ABI revision changes a
// signature.
const (
	SigFilledRelay               = "0x44b559f101f8fbcc8a0ea43fa91a05a729a5ea6e14a7c75aa750374690137208"
	SigFundsDeposited            = "0x32ed1a409ef04c7b0227189c3a103dc5ac10e775a15b785dcc510201f7c25ad3"
	SigExecutedRelayerRefundRoot = "0xf4ad92585b1bc117fbdd644990adf0827bc4c95baeae8a23322af807b6d0020e"
)

// SignatureTable maps topic0 signature hashes to event kinds for one
// chain. Read-only after construction, safe for unsynchronized
// concurrent reads.
type SignatureTable struct {
	kinds map[string]model.EventKind
}

// NewSignatureTable builds a table from the three per-kind hashes.
// Empty entries fall back to the protocol defaults.
func NewSignatureTable(filledRelay, fundsDeposited, refundRoot string) *SignatureTable {
	if filledRelay == "" {
		filledRelay = SigFilledRelay
	}
	if fundsDeposited == "" {
		fundsDeposited = SigFundsDeposited
	}
	if refundRoot == "" {
		refundRoot = SigExecutedRelayerRefundRoot
	}
	return &SignatureTable{kinds: map[string]model.EventKind{
		strings.ToLower(filledRelay):    model.KindFilledRelay,
		strings.ToLower(fundsDeposited): model.KindFundsDeposited,
		strings.ToLower(refundRoot):     model.KindExecutedRelayerRefundRoot,
	}}
}

// DefaultSignatureTable returns the protocol-global table.
func DefaultSignatureTable() *SignatureTable {
	return NewSignatureTable("", "", "")
}

// Kind classifies a topic0 hash. Unknown hashes map to KindUnknown,
// which is a routine outcome, not an error.
func (t *SignatureTable) Kind(topic0 string) model.EventKind {
	if topic0 == "" {
		return model.KindUnknown
	}
	if kind, ok := t.kinds[strings.ToLower(topic0)]; ok {
		return kind
	}
	return model.KindUnknown
}
