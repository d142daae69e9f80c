package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/DjordjeVuckovic/gradebook/internal/domain"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
)

// GradeIndexer mirrors course grades into an Elasticsearch index. It is a
// notify.Notifier.
type GradeIndexer struct {
	client    *elasticsearch.TypedClient
	indexName string
	now       func() time.Time
}

func NewGradeIndexer(ctx context.Context, config ClientConfig) (*GradeIndexer, error) {
	client, err := newClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
	}
	if config.IndexName == "" {
		config.IndexName = DefaultIndexName
	}

	indexer := &GradeIndexer{
		client:    client,
		indexName: config.IndexName,
		now:       time.Now,
	}
	if err := indexer.EnsureIndex(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}
	return indexer, nil
}

func (g *GradeIndexer) CourseGradeChanged(ctx context.Context, grade domain.CourseGrade) error {
	doc := toDocument(grade, g.now())
	id := DocumentID(grade.CourseID, grade.StudentID)

	res, err := g.client.Index(g.indexName).Id(id).Document(doc).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to index grade %s: %w", id, err)
	}

	slog.Debug("grade indexed", "id", id, "index", g.indexName, "result", res.Result)
	return nil
}

// Reindex bulk-writes grades, overwriting existing documents.
func (g *GradeIndexer) Reindex(ctx context.Context, grades []domain.CourseGrade) error {
	if len(grades) == 0 {
		return nil
	}

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         g.indexName,
		Client:        g.client,
		NumWorkers:    2,
		FlushBytes:    1e+6,
		FlushInterval: 5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	var failed atomic.Int64
	now := g.now()
	for _, grade := range grades {
		body, err := json.Marshal(toDocument(grade, now))
		if err != nil {
			failed.Add(1)
			slog.Error("failed to marshal grade document", "error", err, "student_id", grade.StudentID)
			continue
		}

		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: DocumentID(grade.CourseID, grade.StudentID),
			Body:       bytes.NewReader(body),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				failed.Add(1)
				if err != nil {
					slog.Error("bulk index error", "error", err, "id", item.DocumentID)
				} else {
					slog.Error("bulk index error", "type", res.Error.Type, "reason", res.Error.Reason, "id", item.DocumentID)
				}
			},
		})
		if err != nil {
			return fmt.Errorf("failed to add grade to bulk indexer: %w", err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return fmt.Errorf("failed to close bulk indexer: %w", err)
	}

	stats := bi.Stats()
	slog.Info("grades reindexed", "index", g.indexName, "indexed", stats.NumIndexed, "failed", failed.Load())
	if n := failed.Load(); n > 0 {
		return fmt.Errorf("failed to index %d grades", n)
	}
	return nil
}

func (g *GradeIndexer) EnsureIndex(ctx context.Context) error {
	exists, err := g.client.Indices.Exists(g.indexName).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check if index exists: %w", err)
	}
	if exists {
		slog.Info("Index already exists", "index", g.indexName)
		return nil
	}

	mappings := buildMapping()
	res, err := g.client.Indices.Create(g.indexName).
		Mappings(&mappings).
		Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	slog.Info("Index created", "index", g.indexName, "acknowledged", res.Acknowledged)
	return nil
}
