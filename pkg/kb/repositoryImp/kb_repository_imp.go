package repositoryImp

import (
	"gorm.io/gorm"

	"agriverse/entities"
	"agriverse/pkg/apperr"
	"agriverse/pkg/kb/repository"
)

type repo struct{ db *gorm.DB }

func New(db *gorm.DB) repository.KBRepository { return &repo{db} }

func (r *repo) CreateDoc(d *entities.KBDocument) error {
	return apperr.FromDB(r.db.Create(d).Error, "create kb document")
}

func (r *repo) BulkInsertChunks(cs []entities.KBChunk) error {
	if len(cs) == 0 {
		return nil
	}
	return apperr.FromDB(r.db.Create(&cs).Error, "insert kb chunks")
}

func (r *repo) AllChunks() ([]entities.KBChunk, error) {
	var cs []entities.KBChunk
	if err := r.db.Order("doc_id ASC, ord ASC").Find(&cs).Error; err != nil {
		return nil, apperr.FromDB(err, "kb chunks")
	}
	return cs, nil
}

func (r *repo) DocsByIDs(ids []uint) (map[uint]entities.KBDocument, error) {
	if len(ids) == 0 {
		return map[uint]entities.KBDocument{}, nil
	}
	var ds []entities.KBDocument
	if err := r.db.Where("doc_id IN ?", ids).Find(&ds).Error; err != nil {
		return nil, apperr.FromDB(err, "kb documents")
	}
	m := make(map[uint]entities.KBDocument, len(ds))
	for i := range ds {
		m[ds[i].DocID] = ds[i]
	}
	return m, nil
}
