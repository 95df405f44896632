package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"applicon/resume-evaluator/internal/models"
	"applicon/resume-evaluator/internal/scoring"
)

const (
	indexChunkSize    = 1000
	indexChunkOverlap = 100
	indexQueryChars   = 5000
)

// VectorIndexService keeps an embedding index of evaluated resumes so
// recruiters can pull up candidates similar to one they are reviewing.
// Indexing is best effort: callers log failures and move on.
type VectorIndexService interface {
	InitCollection() error
	IndexEvaluation(ctx context.Context, eval *models.Evaluation) error
	FindSimilar(ctx context.Context, eval *models.Evaluation, limit int) ([]SimilarCandidate, error)
}

type SimilarCandidate struct {
	EvaluationID   string  `json:"evaluation_id"`
	JobTitle       string  `json:"job_title"`
	RelevanceScore float64 `json:"relevance_score"`
	Similarity     float32 `json:"similarity"`
}

type vectorIndexService struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
	embedder       scoring.Embedder
	chunker        TextChunker
}

func NewVectorIndexService(urlStr, apiKey, collectionName string, embedder scoring.Embedder) (VectorIndexService, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port, 6334 by default
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &vectorIndexService{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004 size
		embedder:       embedder,
		chunker:        NewTextChunker(),
	}, nil
}

// InitCollection implements VectorIndexService.
func (v *vectorIndexService) InitCollection() error {
	ctx := context.Background()

	exists, err := v.client.CollectionExists(ctx, v.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = v.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: v.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     v.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	return nil
}

// IndexEvaluation implements VectorIndexService. The resume text is chunked
// and each chunk stored as its own point carrying the evaluation metadata.
func (v *vectorIndexService) IndexEvaluation(ctx context.Context, eval *models.Evaluation) error {
	chunks := v.chunker.ChunkText(eval.ResumeText, indexChunkSize, indexChunkOverlap)
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for _, chunk := range chunks {
		embedding, err := v.embedder.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return fmt.Errorf("failed to embed resume chunk: %w", err)
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(uuid.New().ID())),
			Vectors: qdrant.NewVectors(embedding...),
			Payload: qdrant.NewValueMap(map[string]interface{}{
				"evaluation_id":   eval.ID.String(),
				"job_title":       eval.JobTitle,
				"relevance_score": eval.RelevanceScore,
				"text":            chunk,
			}),
		})
	}

	_, err := v.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: v.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}

	return nil
}

// FindSimilar implements VectorIndexService, returning the nearest distinct
// evaluations to the given one.
func (v *vectorIndexService) FindSimilar(ctx context.Context, eval *models.Evaluation, limit int) ([]SimilarCandidate, error) {
	text := eval.ResumeText
	if len(text) > indexQueryChars {
		text = text[:indexQueryChars]
	}

	embedding, err := v.embedder.GenerateEmbedding(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query resume: %w", err)
	}

	// Chunked indexing means one evaluation can occupy several of the top
	// slots, so over-fetch before deduplicating.
	fetch := uint64(limit * 4)
	searchResult, err := v.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: v.collectionName,
		Query:          qdrant.NewQuery(embedding...),
		Limit:          qdrant.PtrOf(fetch),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	seen := map[string]struct{}{eval.ID.String(): {}}
	var candidates []SimilarCandidate

	for _, point := range searchResult {
		payload := point.Payload

		id := stringPayload(payload, "evaluation_id")
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		candidates = append(candidates, SimilarCandidate{
			EvaluationID:   id,
			JobTitle:       stringPayload(payload, "job_title"),
			RelevanceScore: doublePayload(payload, "relevance_score"),
			Similarity:     point.Score,
		})

		if len(candidates) >= limit {
			break
		}
	}

	return candidates, nil
}

func stringPayload(payload map[string]*qdrant.Value, key string) string {
	if value, ok := payload[key]; ok {
		if s, ok := value.GetKind().(*qdrant.Value_StringValue); ok {
			return s.StringValue
		}
	}
	return ""
}

func doublePayload(payload map[string]*qdrant.Value, key string) float64 {
	if value, ok := payload[key]; ok {
		if d, ok := value.GetKind().(*qdrant.Value_DoubleValue); ok {
			return d.DoubleValue
		}
	}
	return 0
}
