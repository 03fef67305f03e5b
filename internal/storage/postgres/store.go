package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/0xlong/across-analytics/internal/model"
)

// Store provides Postgres persistence for decoded event rows.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("pg dsn is required")
	}
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// UpsertRecords inserts or updates decoded rows. Rows are keyed on
// (chain_id, tx_hash, log_index, row_index) so refund expansions and
// re-decodes of the same log stay idempotent. Amount columns are
// NUMERIC; the decimal strings bind unchanged.
func (s *Store) UpsertRecords(ctx context.Context, records []model.OutputRecord) error {
	if len(records) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, r := range records {
		batch.Queue(`
			INSERT INTO across_events (
				chain_id, tx_hash, log_index, row_index,
				block_number, block_hash, tx_index, address, block_timestamp, event_kind,
				origin_chain_id, destination_chain_id, refund_chain_id,
				deposit_id, relayer, depositor, root_bundle_id, leaf_id,
				input_token, output_token, input_amount, output_amount,
				fill_deadline, exclusivity_deadline, recipient, exclusive_relayer,
				repayment_chain_id, message_hash,
				updated_recipient, updated_message_hash, updated_output_amount, fill_type,
				quote_timestamp, message,
				amount_to_return, l2_token_address, deferred_refunds, caller,
				refund_address, refund_amount, refund_index,
				created_at, updated_at
			) VALUES (
				$1, $2, $3, $4,
				$5, $6, $7, $8, $9, $10,
				$11, $12, $13,
				$14, $15, $16, $17, $18,
				$19, $20, $21, $22,
				$23, $24, $25, $26,
				$27, $28,
				$29, $30, $31, $32,
				$33, $34,
				$35, $36, $37, $38,
				$39, $40, $41,
				now(), now()
			)
			ON CONFLICT (chain_id, tx_hash, log_index, row_index)
			DO UPDATE SET
				block_number = EXCLUDED.block_number,
				block_hash = EXCLUDED.block_hash,
				tx_index = EXCLUDED.tx_index,
				address = EXCLUDED.address,
				block_timestamp = EXCLUDED.block_timestamp,
				event_kind = EXCLUDED.event_kind,
				origin_chain_id = EXCLUDED.origin_chain_id,
				destination_chain_id = EXCLUDED.destination_chain_id,
				refund_chain_id = EXCLUDED.refund_chain_id,
				deposit_id = EXCLUDED.deposit_id,
				relayer = EXCLUDED.relayer,
				depositor = EXCLUDED.depositor,
				root_bundle_id = EXCLUDED.root_bundle_id,
				leaf_id = EXCLUDED.leaf_id,
				input_token = EXCLUDED.input_token,
				output_token = EXCLUDED.output_token,
				input_amount = EXCLUDED.input_amount,
				output_amount = EXCLUDED.output_amount,
				fill_deadline = EXCLUDED.fill_deadline,
				exclusivity_deadline = EXCLUDED.exclusivity_deadline,
				recipient = EXCLUDED.recipient,
				exclusive_relayer = EXCLUDED.exclusive_relayer,
				repayment_chain_id = EXCLUDED.repayment_chain_id,
				message_hash = EXCLUDED.message_hash,
				updated_recipient = EXCLUDED.updated_recipient,
				updated_message_hash = EXCLUDED.updated_message_hash,
				updated_output_amount = EXCLUDED.updated_output_amount,
				fill_type = EXCLUDED.fill_type,
				quote_timestamp = EXCLUDED.quote_timestamp,
				message = EXCLUDED.message,
				amount_to_return = EXCLUDED.amount_to_return,
				l2_token_address = EXCLUDED.l2_token_address,
				deferred_refunds = EXCLUDED.deferred_refunds,
				caller = EXCLUDED.caller,
				refund_address = EXCLUDED.refund_address,
				refund_amount = EXCLUDED.refund_amount,
				refund_index = EXCLUDED.refund_index,
				updated_at = now()
		`,
			int64(r.ChainID),
			r.TxHash,
			int64(r.LogIndex),
			int64(r.RowIndex()),
			int64(r.BlockNumber),
			r.BlockHash,
			int64(r.TxIndex),
			r.Address,
			int64(r.Timestamp),
			string(r.EventKind),
			r.OriginChainID,
			r.DestinationChainID,
			r.RefundChainID,
			r.DepositID,
			r.Relayer,
			r.Depositor,
			r.RootBundleID,
			r.LeafID,
			r.InputToken,
			r.OutputToken,
			r.InputAmount,
			r.OutputAmount,
			r.FillDeadline,
			r.ExclusivityDeadline,
			r.Recipient,
			r.ExclusiveRelayer,
			r.RepaymentChainID,
			r.MessageHash,
			r.UpdatedRecipient,
			r.UpdatedMessageHash,
			r.UpdatedOutputAmount,
			r.FillType,
			r.QuoteTimestamp,
			r.Message,
			r.AmountToReturn,
			r.L2TokenAddress,
			r.DeferredRefunds,
			r.Caller,
			r.RefundAddress,
			r.RefundAmount,
			r.RefundIndex,
		)
	}

	br := s.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range records {
		if _, err := br.Exec(); err != nil {
			return err
		}
	}
	return nil
}
