package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/custodia-labs/campusrag/internal/core/domain"
	"github.com/custodia-labs/campusrag/internal/core/ports/driven"
	"github.com/custodia-labs/campusrag/internal/core/ports/driving"
	"github.com/custodia-labs/campusrag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// textURI is the source recorded for inline text ingestion.
const textURI = "text"

// IngestOptions tunes the embedding stage of ingestion.
type IngestOptions struct {
	// BatchSize is the number of chunks per EmbedBatch call.
	BatchSize int

	// EmbedTimeout bounds every EmbedBatch call.
	EmbedTimeout time.Duration
}

// IngestService loads documents, runs them through the post-processor
// pipeline, embeds the chunks and appends them to the tenant index.
type IngestService struct {
	stores   driven.VectorStoreRegistry
	loader   driven.NormaliserRegistry
	pipeline driven.PostProcessorPipeline
	embedder driven.EmbeddingService
	chunks   driven.ChunkStore
	opts     IngestOptions
}

// NewIngestService creates a new ingestion service.
func NewIngestService(
	stores driven.VectorStoreRegistry,
	loader driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	opts IngestOptions,
) *IngestService {
	if opts.BatchSize <= 0 {
		opts.BatchSize = domain.DefaultBatchSize
	}
	if opts.EmbedTimeout <= 0 {
		opts.EmbedTimeout = domain.DefaultEmbedTimeout
	}
	return &IngestService{
		stores:   stores,
		loader:   loader,
		pipeline: pipeline,
		embedder: embedder,
		opts:     opts,
	}
}

// SetChunkStore sets the optional chunk ledger.
func (s *IngestService) SetChunkStore(store driven.ChunkStore) {
	s.chunks = store
}

// Ingest loads, chunks, embeds and indexes one document.
// Every chunk is embedded before the index is touched, so a failed
// embedding leaves an existing version of the document in place.
func (s *IngestService) Ingest(ctx context.Context, req domain.IngestRequest) (*domain.IngestResult, error) {
	tenant, err := domain.NewTenantID(string(req.TenantID))
	if err != nil {
		return nil, err
	}
	if err := normaliseRequest(&req); err != nil {
		return nil, err
	}
	defer logger.Timed("ingest " + req.DocumentID)()

	doc, err := s.load(ctx, req)
	if err != nil {
		return nil, err
	}
	doc.ID = req.DocumentID
	doc.TenantID = tenant
	if req.Title != "" {
		doc.Title = req.Title
	}
	for k, v := range req.Metadata {
		doc.Metadata[k] = v
	}
	doc.Metadata[domain.MetaDocumentID] = doc.ID
	doc.Metadata[domain.MetaCollegeID] = tenant.String()

	chunks, err := s.pipeline.Process(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("process %s: %w", doc.ID, err)
	}
	logger.Debug("document %s (%s): %d chunks", doc.ID, doc.Format, len(chunks))

	vectors, err := s.embed(ctx, chunks)
	if err != nil {
		return nil, err
	}

	store, err := s.stores.Open(ctx, tenant)
	if err != nil {
		return nil, fmt.Errorf("open index for %s: %w", tenant, err)
	}

	result := &domain.IngestResult{
		DocumentID: doc.ID,
		Format:     doc.Format,
		Chunks:     len(chunks),
	}
	if req.Replace {
		removed, err := store.DeleteByDocument(ctx, doc.ID)
		if err != nil {
			return nil, fmt.Errorf("replace %s: %w", doc.ID, err)
		}
		result.Replaced = removed
		s.ledger(func() error { return s.chunks.DeleteDocument(ctx, tenant, doc.ID) })
	}

	if len(chunks) > 0 {
		if err := store.Add(ctx, chunks, vectors); err != nil {
			return nil, fmt.Errorf("index %s: %w", doc.ID, err)
		}
		for i := range chunks {
			chunks[i].Embedding = vectors[i]
		}
		s.ledger(func() error { return s.chunks.SaveChunks(ctx, tenant, chunks) })
	} else {
		logger.Warn("document %s produced no chunks", doc.ID)
	}

	result.Dimension = store.Stats().Dimension
	logger.Info("ingested %s into %s: %d chunks (replaced %d)", doc.ID, tenant, result.Chunks, result.Replaced)
	return result, nil
}

// normaliseRequest checks that exactly one source is given and fills in a
// document ID for file ingestion.
func normaliseRequest(req *domain.IngestRequest) error {
	req.DocumentID = strings.TrimSpace(req.DocumentID)
	hasPath, hasText := req.Path != "", req.Text != ""
	switch {
	case hasPath == hasText:
		return fmt.Errorf("%w: exactly one of path and text is required", domain.ErrInvalidInput)
	case hasText && strings.TrimSpace(req.Text) == "":
		return fmt.Errorf("%w: text is blank", domain.ErrInvalidInput)
	case hasText && req.DocumentID == "":
		return fmt.Errorf("%w: text ingestion needs a document id", domain.ErrInvalidInput)
	case req.DocumentID == "":
		req.DocumentID = filepath.Base(req.Path)
	}
	return nil
}

func (s *IngestService) load(ctx context.Context, req domain.IngestRequest) (*domain.Document, error) {
	var (
		result *driven.NormaliseResult
		err    error
	)
	if req.Path != "" {
		result, err = s.loader.LoadFile(ctx, req.Path)
	} else {
		meta := map[string]any{}
		if req.Title != "" {
			meta[domain.MetaTitle] = req.Title
		}
		result, err = s.loader.Normalise(ctx, &domain.RawDocument{
			URI:      textURI,
			Format:   domain.FormatPlainText,
			Content:  []byte(req.Text),
			Metadata: meta,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", req.DocumentID, err)
	}

	doc := result.Document
	if doc.Metadata == nil {
		doc.Metadata = make(map[string]any)
	}
	return &doc, nil
}

// embed runs EmbedBatch over the chunks in batches, each under its own timeout.
func (s *IngestService) embed(ctx context.Context, chunks []domain.Chunk) ([][]float32, error) {
	vectors := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += s.opts.BatchSize {
		end := min(start+s.opts.BatchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Content)
		}

		embedCtx, cancel := context.WithTimeout(ctx, s.opts.EmbedTimeout)
		batch, err := s.embedder.EmbedBatch(embedCtx, texts)
		cancel()
		if err != nil {
			return nil, fmt.Errorf("embed chunks %d-%d: %w", start, end-1, err)
		}
		if len(batch) != len(texts) {
			return nil, fmt.Errorf("embed chunks %d-%d: got %d vectors for %d texts",
				start, end-1, len(batch), len(texts))
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

// ledger runs op against the chunk store when one is set. The vector index
// is authoritative, so ledger failures are reported but not returned.
func (s *IngestService) ledger(op func() error) {
	if s.chunks == nil {
		return
	}
	if err := op(); err != nil {
		logger.Error("chunk ledger: %v", err)
	}
}

// DeleteDocument removes every slot of a document.
func (s *IngestService) DeleteDocument(ctx context.Context, tenant domain.TenantID, documentID string) (int, error) {
	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return 0, err
	}
	if documentID == "" {
		return 0, fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	store, err := s.stores.Open(ctx, tenant)
	if err != nil {
		return 0, fmt.Errorf("open index for %s: %w", tenant, err)
	}
	removed, err := store.DeleteByDocument(ctx, documentID)
	if err != nil {
		return 0, fmt.Errorf("delete %s: %w", documentID, err)
	}
	s.ledger(func() error { return s.chunks.DeleteDocument(ctx, tenant, documentID) })
	logger.Info("deleted %s from %s: %d slots", documentID, tenant, removed)
	return removed, nil
}

// ClearTenant drops the tenant's whole index.
func (s *IngestService) ClearTenant(ctx context.Context, tenant domain.TenantID) error {
	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return err
	}
	store, err := s.stores.Open(ctx, tenant)
	if err != nil {
		return fmt.Errorf("open index for %s: %w", tenant, err)
	}
	if err := store.Clear(ctx); err != nil {
		return fmt.Errorf("clear %s: %w", tenant, err)
	}
	s.ledger(func() error { return s.chunks.DeleteTenant(ctx, tenant) })
	logger.Info("cleared index of %s", tenant)
	return nil
}

// Stats describes the tenant's index.
func (s *IngestService) Stats(ctx context.Context, tenant domain.TenantID) (domain.IndexStats, error) {
	tenant, err := domain.NewTenantID(string(tenant))
	if err != nil {
		return domain.IndexStats{}, err
	}
	store, err := s.stores.Open(ctx, tenant)
	if err != nil {
		return domain.IndexStats{}, fmt.Errorf("open index for %s: %w", tenant, err)
	}
	return store.Stats(), nil
}
