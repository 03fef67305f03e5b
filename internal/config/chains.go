package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ChainEvents carries per-chain topic0 overrides. Empty entries fall
// back to the protocol-global signatures.
type ChainEvents struct {
	FilledRelay               string `json:"filled_relay"`
	FundsDeposited            string `json:"funds_deposited"`
	ExecutedRelayerRefundRoot string `json:"executed_relayer_refund_root"`
}

// ChainConfig describes one chain's SpokePool deployment.
type ChainConfig struct {
	ChainID   uint64      `json:"chain_id"`
	SpokePool string      `json:"spoke_pool"`
	Events    ChainEvents `json:"events"`
}

// ChainTable maps a chain name (e.g. "optimism", "base") to its
// SpokePool deployment, as read from the chains JSON file.
type ChainTable map[string]ChainConfig

// LoadChains reads and validates the chains file.
func LoadChains(path string) (ChainTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read chains file: %w", err)
	}

	var table ChainTable
	if err := json.Unmarshal(raw, &table); err != nil {
		return nil, fmt.Errorf("parse chains file: %w", err)
	}

	for name, chain := range table {
		if err := validateChain(chain); err != nil {
			return nil, fmt.Errorf("chain %q: %w", name, err)
		}
	}
	return table, nil
}

// Lookup finds a chain by name, falling back to a chain-id scan when
// the name is empty.
func (t ChainTable) Lookup(name string, chainID uint64) (ChainConfig, bool) {
	if name != "" {
		chain, ok := t[strings.ToLower(strings.TrimSpace(name))]
		return chain, ok
	}
	if chainID != 0 {
		for _, chain := range t {
			if chain.ChainID == chainID {
				return chain, true
			}
		}
	}
	return ChainConfig{}, false
}

func validateChain(chain ChainConfig) error {
	if chain.ChainID == 0 {
		return fmt.Errorf("missing chain_id")
	}
	if chain.SpokePool != "" && !common.IsHexAddress(chain.SpokePool) {
		return fmt.Errorf("invalid spoke_pool address: %s", chain.SpokePool)
	}

	hashes := map[string]string{
		"filled_relay":                 chain.Events.FilledRelay,
		"funds_deposited":              chain.Events.FundsDeposited,
		"executed_relayer_refund_root": chain.Events.ExecutedRelayerRefundRoot,
	}
	for field, hash := range hashes {
		if hash == "" {
			continue
		}
		if err := validateTopicHash(hash); err != nil {
			return fmt.Errorf("%s: %w", field, err)
		}
	}
	return nil
}

func validateTopicHash(input string) error {
	data, err := hexutil.Decode(strings.TrimSpace(input))
	if err != nil {
		return fmt.Errorf("invalid topic hash: %s", input)
	}
	if len(data) != 32 {
		return fmt.Errorf("invalid topic hash length: %s", input)
	}
	return nil
}
