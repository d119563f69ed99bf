package document

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentRepository is the narrow view of the document store the
// service needs: insert with generated id, point get, the two indexed
// listings (owner+parent and owner alone, newest first, filtered on
// is_archived), a partial patch and a hard delete. Anything providing
// these can back the service.
type DocumentRepository interface {
	Create(ctx context.Context, doc *Document) error
	FindByID(ctx context.Context, id string) (*Document, error)
	ListByParent(ctx context.Context, userID string, parent *string, archived bool) ([]Document, error)
	ListChildren(ctx context.Context, userID string, parent string) ([]Document, error)
	ListByOwner(ctx context.Context, userID string, archived bool) ([]Document, error)
	Patch(ctx context.Context, id string, fields map[string]any) (*Document, error)
	Delete(ctx context.Context, id string) error
}

type DocumentRepositoryImpl struct {
	db *gorm.DB
}

// NewRepository creates a new document repository
func NewRepository(db *gorm.DB) DocumentRepository {
	return &DocumentRepositoryImpl{db: db}
}

// Create inserts a new document, assigning its id
func (r *DocumentRepositoryImpl) Create(ctx context.Context, doc *Document) error {
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepositoryImpl) FindByID(ctx context.Context, id string) (*Document, error) {
	var doc Document
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// ListByParent backs the sidebar: one level of the tree, owned by
// userID, filtered on archived state, newest first. A nil parent means
// root-level documents.
func (r *DocumentRepositoryImpl) ListByParent(ctx context.Context, userID string, parent *string, archived bool) ([]Document, error) {
	var docs []Document
	q := r.db.WithContext(ctx).Where("user_id = ? AND is_archived = ?", userID, archived)
	if parent == nil {
		q = q.Where("parent_document IS NULL")
	} else {
		q = q.Where("parent_document = ?", *parent)
	}
	err := q.Order("created_at DESC").Find(&docs).Error
	return docs, err
}

// ListChildren returns every direct child regardless of archived
// state. The cascade walks the tree with this so an already-archived
// branch is still traversed on restore.
func (r *DocumentRepositoryImpl) ListChildren(ctx context.Context, userID string, parent string) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND parent_document = ?", userID, parent).
		Find(&docs).Error
	return docs, err
}

func (r *DocumentRepositoryImpl) ListByOwner(ctx context.Context, userID string, archived bool) ([]Document, error) {
	var docs []Document
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND is_archived = ?", userID, archived).
		Order("created_at DESC").
		Find(&docs).Error
	return docs, err
}

// Patch applies only the named fields and returns the fresh row. A nil
// map value clears the column.
func (r *DocumentRepositoryImpl) Patch(ctx context.Context, id string, fields map[string]any) (*Document, error) {
	result := r.db.WithContext(ctx).Model(&Document{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

func (r *DocumentRepositoryImpl) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&Document{}).Error
}
