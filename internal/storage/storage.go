package storage

import "github.com/0xlong/across-analytics/internal/model"

// Storage defines a sink for decoded event rows.
type Storage interface {
	PutRecordBatch(records []model.OutputRecord) error
}
