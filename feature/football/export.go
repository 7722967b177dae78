package football

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"football-sync/core/engine"
	"football-sync/core/storage"
	"football-sync/feature/football/models"
)

// Exporter serializes active local entities per kind to JSON dataset
// snapshots and uploads them to object storage.
type Exporter struct {
	db     *gorm.DB
	store  storage.Client
	bucket string
	logger *zap.Logger
}

// NewExporter creates a new dataset exporter.
func NewExporter(db *gorm.DB, store storage.Client, bucket string, logger *zap.Logger) *Exporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Exporter{db: db, store: store, bucket: bucket, logger: logger}
}

// dataset is the snapshot envelope written per kind.
type dataset struct {
	Kind        string           `json:"kind"`
	GeneratedAt time.Time        `json:"generated_at"`
	Count       int              `json:"count"`
	Records     []map[string]any `json:"records"`
}

// Export uploads one snapshot object per kind and returns the object
// names written. Inactive rows are excluded; the snapshot reflects
// what the provider currently reports.
func (e *Exporter) Export(ctx context.Context, kinds []engine.EntityKind) ([]string, error) {
	if err := e.ensureBucket(ctx); err != nil {
		return nil, err
	}

	stamp := time.Now().UTC().Format("20060102T150405Z")
	objects := make([]string, 0, len(kinds))

	for _, kind := range kinds {
		table, ok := models.TableFor(kind)
		if !ok {
			return objects, engine.NewConfiguration("no table backs kind %q", kind)
		}

		var rows []map[string]any
		err := e.db.WithContext(ctx).
			Table(table).
			Where("active = ?", true).
			Order("external_id asc").
			Find(&rows).Error
		if err != nil {
			return objects, fmt.Errorf("read %s: %w", table, err)
		}

		payload, err := json.Marshal(dataset{
			Kind:        string(kind),
			GeneratedAt: time.Now().UTC(),
			Count:       len(rows),
			Records:     rows,
		})
		if err != nil {
			return objects, fmt.Errorf("encode %s dataset: %w", kind, err)
		}

		object := fmt.Sprintf("datasets/%s-%s.json", kind, stamp)
		_, err = e.store.PutObject(ctx, e.bucket, object,
			bytes.NewReader(payload), int64(len(payload)),
			minio.PutObjectOptions{ContentType: "application/json"})
		if err != nil {
			return objects, fmt.Errorf("upload %s: %w", object, err)
		}

		e.logger.Info("dataset exported",
			zap.String("kind", string(kind)),
			zap.String("object", object),
			zap.Int("records", len(rows)))
		objects = append(objects, object)
	}
	return objects, nil
}

func (e *Exporter) ensureBucket(ctx context.Context) error {
	exists, err := e.store.BucketExists(ctx, e.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", e.bucket, err)
	}
	if exists {
		return nil
	}
	if err := e.store.MakeBucket(ctx, e.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", e.bucket, err)
	}
	return nil
}
