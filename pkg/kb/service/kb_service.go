package service

import (
	"context"

	"agriverse/entities"
)

type IngestRequest struct {
	Title     string `json:"title"`
	Tags      string `json:"tags"`
	Text      string `json:"text"`
	SourceURL string `json:"source_url,omitempty"`
}

type IngestURLRequest struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
	Tags  string `json:"tags,omitempty"`
}

type IngestResult struct {
	Doc    *entities.KBDocument `json:"doc"`
	Chunks int                  `json:"chunks"`
}

// Hit is a search result with the owning document's title and url.
type Hit struct {
	ChunkID   uint   `json:"chunk_id"`
	DocID     uint   `json:"doc_id"`
	Ord       int    `json:"ord"`
	Text      string `json:"text"`
	DocTitle  string `json:"doc_title,omitempty"`
	SourceURL string `json:"source_url,omitempty"`
}

type KBService interface {
	Ingest(req IngestRequest) (*IngestResult, error)
	IngestURL(ctx context.Context, req IngestURLRequest) (*IngestResult, error)
	// Search returns up to k chunks that share at least one term with query.
	Search(query string, k int) ([]entities.KBChunk, error)
	Lookup(query string, k int) ([]Hit, error)
}
