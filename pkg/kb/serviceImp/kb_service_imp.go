package serviceImp

import (
	"sort"
	"strings"
	"unicode"

	"agriverse/config"
	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/kb/repository"
	"agriverse/pkg/kb/service"
	"agriverse/pkg/logger"
)

const chunkRunes = 1000

type Svc struct {
	r        repository.KBRepository
	allow    map[string]bool
	maxBytes int
	fetch    fetcher
	log      *logger.Logger
}

func New(r repository.KBRepository, cfg config.AppConfig, log *logger.Logger) *Svc {
	allow := map[string]bool{}
	for _, h := range cfg.KBAllowedDomains {
		if h = strings.ToLower(strings.TrimSpace(h)); h != "" {
			allow[h] = true
		}
	}
	mb := cfg.KBMaxBytesPerPage
	if mb <= 0 {
		mb = 1500000
	}
	return &Svc{r: r, allow: allow, maxBytes: mb, fetch: httpFetch, log: log.With("component", "kb")}
}

var _ service.KBService = (*Svc)(nil)

// chunkText splits on the first newline after every maxRunes runes.
func chunkText(text string, maxRunes int) []string {
	var parts []string
	var cur strings.Builder
	count := 0
	for _, r := range text {
		cur.WriteRune(r)
		count++
		if count >= maxRunes && r == '\n' {
			parts = append(parts, cur.String())
			cur.Reset()
			count = 0
		}
	}
	if strings.TrimSpace(cur.String()) != "" {
		parts = append(parts, cur.String())
	}
	return parts
}

func (s *Svc) Ingest(req service.IngestRequest) (*service.IngestResult, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperr.Invalid("title is required")
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, apperr.Invalid("text is required")
	}
	d := &entities.KBDocument{Title: title, Tags: strings.TrimSpace(req.Tags), SourceURL: req.SourceURL}
	if err := s.r.CreateDoc(d); err != nil {
		return nil, err
	}
	chs := chunkText(req.Text, chunkRunes)
	rows := make([]entities.KBChunk, len(chs))
	for i, c := range chs {
		rows[i] = entities.KBChunk{DocID: d.DocID, Ord: i, Text: c}
	}
	if err := s.r.BulkInsertChunks(rows); err != nil {
		return nil, err
	}
	s.log.Info("kb document ingested", "doc_id", d.DocID, "chunks", len(rows))
	return &service.IngestResult{Doc: d, Chunks: len(rows)}, nil
}

func terms(q string) []string {
	seen := map[string]bool{}
	var out []string
	for _, f := range strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}) {
		if len([]rune(f)) < 3 || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	return out
}

func (s *Svc) Search(query string, k int) ([]entities.KBChunk, error) {
	ts := terms(query)
	if len(ts) == 0 || k <= 0 {
		return nil, nil
	}
	chunks, err := s.r.AllChunks()
	if err != nil {
		return nil, err
	}

	type scored struct {
		ch entities.KBChunk
		sc int
	}
	var hits []scored
	for _, ch := range chunks {
		low := strings.ToLower(ch.Text)
		sc := 0
		for _, t := range ts {
			if strings.Contains(low, t) {
				sc++
			}
		}
		if sc > 0 {
			hits = append(hits, scored{ch, sc})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].sc > hits[j].sc })

	out := make([]entities.KBChunk, 0, min(k, len(hits)))
	for i := 0; i < len(hits) && i < k; i++ {
		out = append(out, hits[i].ch)
	}
	return out, nil
}

func (s *Svc) Lookup(query string, k int) ([]service.Hit, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperr.Invalid("q is required")
	}
	chunks, err := s.Search(query, k)
	if err != nil {
		return nil, err
	}
	seen := map[uint]bool{}
	var ids []uint
	for _, ch := range chunks {
		if !seen[ch.DocID] {
			seen[ch.DocID] = true
			ids = append(ids, ch.DocID)
		}
	}
	meta, err := s.r.DocsByIDs(ids)
	if err != nil {
		return nil, err
	}
	out := make([]service.Hit, 0, len(chunks))
	for _, ch := range chunks {
		h := service.Hit{ChunkID: ch.ChunkID, DocID: ch.DocID, Ord: ch.Ord, Text: ch.Text}
		if d, ok := meta[ch.DocID]; ok {
			h.DocTitle = d.Title
			h.SourceURL = d.SourceURL
		}
		out = append(out, h)
	}
	return out, nil
}
