package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/klauspost/compress/zstd"

	appctx "storebridge/internal/core/context"
	"storebridge/internal/core/id"
	"storebridge/internal/domain/bulkupdate"
	"storebridge/internal/domain/catalog/item"
)

// CompressionAlgo specifies the compression algorithm used for audit payloads.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditEntry is one recorded bulk update batch. Per-row outcomes are stored
// as a JSON payload, zstd-compressed when large.
type AuditEntry struct {
	ID                id.ID           `db:"id"`
	OutletID          id.ID           `db:"outlet_id"`
	Channel           string          `db:"channel"`
	UserID            string          `db:"user_id"`
	RowsTotal         int             `db:"rows_total"`
	Updated           int             `db:"updated"`
	NoChange          int             `db:"no_change"`
	NotFound          int             `db:"not_found"`
	Created           int             `db:"created"`
	Payload           json.RawMessage `db:"payload"`
	PayloadCompressed []byte          `db:"payload_compressed"`
	CompressionAlgo   CompressionAlgo `db:"compression_algo"`
	CreatedAt         time.Time       `db:"created_at"`
}

// AuditService records processed bulk update batches. It implements
// bulkupdate.AuditSink.
type AuditService struct {
	txManager         *TxManager
	encoder           *zstd.Encoder
	decoder           *zstd.Decoder
	compressThreshold int // bytes, default 10KB
}

var _ bulkupdate.AuditSink = (*AuditService)(nil)

// NewAuditService creates a new audit service.
func NewAuditService(txManager *TxManager) (*AuditService, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}

	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}

	return &AuditService{
		txManager:         txManager,
		encoder:           encoder,
		decoder:           decoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// RecordBatch persists one batch outcome.
func (s *AuditService) RecordBatch(ctx context.Context, outletID id.ID, channel item.Channel, result bulkupdate.BatchResult) error {
	payload, err := json.Marshal(result.Rows)
	if err != nil {
		return fmt.Errorf("marshal batch rows: %w", err)
	}

	entry := AuditEntry{
		ID:              id.New(),
		OutletID:        outletID,
		Channel:         string(channel),
		UserID:          appctx.GetUserID(ctx),
		RowsTotal:       len(result.Rows),
		Updated:         result.Updated,
		NoChange:        result.NoChange,
		NotFound:        result.NotFound,
		Created:         len(result.Created),
		Payload:         payload,
		CompressionAlgo: CompressionNone,
		CreatedAt:       time.Now().UTC(),
	}

	if len(entry.Payload) > s.compressThreshold {
		entry.PayloadCompressed = s.encoder.EncodeAll(entry.Payload, nil)
		entry.Payload = nil
		entry.CompressionAlgo = CompressionZstd
	}

	sql := `
		INSERT INTO price_audit (
			id, outlet_id, channel, user_id,
			rows_total, updated, no_change, not_found, created,
			payload, payload_compressed, compression_algo, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	querier := s.txManager.GetQuerier(ctx)
	_, err = querier.Exec(ctx, sql,
		entry.ID, entry.OutletID, entry.Channel, entry.UserID,
		entry.RowsTotal, entry.Updated, entry.NoChange, entry.NotFound, entry.Created,
		entry.Payload, entry.PayloadCompressed, entry.CompressionAlgo, entry.CreatedAt,
	)
	return err
}

// History retrieves recorded batches for one outlet, newest first. Compressed
// payloads are transparently decompressed.
func (s *AuditService) History(ctx context.Context, outletID id.ID, limit int) ([]AuditEntry, error) {
	sql := `
		SELECT id, outlet_id, channel, user_id,
			   rows_total, updated, no_change, not_found, created,
			   payload, payload_compressed, compression_algo, created_at
		FROM price_audit
		WHERE outlet_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := s.txManager.GetQuerier(ctx).Query(ctx, sql, outletID, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit history: %w", err)
	}
	defer rows.Close()

	var entries []AuditEntry
	for rows.Next() {
		var e AuditEntry
		err := rows.Scan(
			&e.ID, &e.OutletID, &e.Channel, &e.UserID,
			&e.RowsTotal, &e.Updated, &e.NoChange, &e.NotFound, &e.Created,
			&e.Payload, &e.PayloadCompressed, &e.CompressionAlgo, &e.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}

		if e.CompressionAlgo == CompressionZstd && len(e.PayloadCompressed) > 0 {
			decompressed, err := s.decoder.DecodeAll(e.PayloadCompressed, nil)
			if err != nil {
				return nil, fmt.Errorf("decompress payload: %w", err)
			}
			e.Payload = decompressed
			e.PayloadCompressed = nil
		}

		entries = append(entries, e)
	}

	return entries, rows.Err()
}
