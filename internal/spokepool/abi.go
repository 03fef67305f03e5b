package spokepool

import (
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// spokePoolABIJSON pins the three event definitions this decoder
// understands. The decoder itself reads fixed slots; the parsed ABI is
// the canonical reference for those layouts and packs test vectors.
const spokePoolABIJSON = `[
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "bytes32", "name": "inputToken", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "outputToken", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "inputAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "outputAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "repaymentChainId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "originChainId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "depositId", "type": "uint256"},
      {"indexed": false, "internalType": "uint32", "name": "fillDeadline", "type": "uint32"},
      {"indexed": false, "internalType": "uint32", "name": "exclusivityDeadline", "type": "uint32"},
      {"indexed": false, "internalType": "bytes32", "name": "exclusiveRelayer", "type": "bytes32"},
      {"indexed": true, "internalType": "bytes32", "name": "relayer", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "depositor", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "recipient", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "messageHash", "type": "bytes32"},
      {
        "indexed": false,
        "internalType": "struct V3SpokePoolInterface.V3RelayExecutionEventInfo",
        "name": "relayExecutionInfo",
        "type": "tuple",
        "components": [
          {"internalType": "bytes32", "name": "updatedRecipient", "type": "bytes32"},
          {"internalType": "bytes32", "name": "updatedMessageHash", "type": "bytes32"},
          {"internalType": "uint256", "name": "updatedOutputAmount", "type": "uint256"},
          {"internalType": "uint8", "name": "fillType", "type": "uint8"}
        ]
      }
    ],
    "name": "FilledRelay",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "bytes32", "name": "inputToken", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "outputToken", "type": "bytes32"},
      {"indexed": false, "internalType": "uint256", "name": "inputAmount", "type": "uint256"},
      {"indexed": false, "internalType": "uint256", "name": "outputAmount", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "destinationChainId", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "depositId", "type": "uint256"},
      {"indexed": false, "internalType": "uint32", "name": "quoteTimestamp", "type": "uint32"},
      {"indexed": false, "internalType": "uint32", "name": "fillDeadline", "type": "uint32"},
      {"indexed": false, "internalType": "uint32", "name": "exclusivityDeadline", "type": "uint32"},
      {"indexed": true, "internalType": "bytes32", "name": "depositor", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "recipient", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes32", "name": "exclusiveRelayer", "type": "bytes32"},
      {"indexed": false, "internalType": "bytes", "name": "message", "type": "bytes"}
    ],
    "name": "FundsDeposited",
    "type": "event"
  },
  {
    "anonymous": false,
    "inputs": [
      {"indexed": false, "internalType": "uint256", "name": "amountToReturn", "type": "uint256"},
      {"indexed": true, "internalType": "uint256", "name": "chainId", "type": "uint256"},
      {"indexed": false, "internalType": "uint256[]", "name": "refundAmounts", "type": "uint256[]"},
      {"indexed": true, "internalType": "uint256", "name": "rootBundleId", "type": "uint256"},
      {"indexed": true, "internalType": "uint32", "name": "leafId", "type": "uint32"},
      {"indexed": false, "internalType": "address", "name": "l2TokenAddress", "type": "address"},
      {"indexed": false, "internalType": "address[]", "name": "refundAddresses", "type": "address[]"},
      {"indexed": false, "internalType": "bool", "name": "deferredRefunds", "type": "bool"},
      {"indexed": false, "internalType": "address", "name": "caller", "type": "address"}
    ],
    "name": "ExecutedRelayerRefundRoot",
    "type": "event"
  }
]`

var (
	spokePoolABI     abi.ABI
	spokePoolABIOnce sync.Once
	spokePoolABIErr  error
)

// SpokePoolABI returns the parsed SpokePool event ABI.
func SpokePoolABI() (abi.ABI, error) {
	spokePoolABIOnce.Do(func() {
		spokePoolABI, spokePoolABIErr = abi.JSON(strings.NewReader(spokePoolABIJSON))
	})
	return spokePoolABI, spokePoolABIErr
}
