package document

import (
	"context"
	defError "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/isaiahpere/notion-clony/internal/errors"
	"github.com/isaiahpere/notion-clony/internal/logger"
	"github.com/isaiahpere/notion-clony/internal/worker"
	"github.com/isaiahpere/notion-clony/redis"
)

// Service owns the document tree lifecycle: create, the three listings,
// visibility-checked reads, partial updates, the archive/restore
// cascades and the single-node hard delete. Every mutation is
// owner-only; the caller identity is the opaque subject string resolved
// by the auth middleware, "" meaning anonymous.
type Service interface {
	Create(ctx context.Context, userID string, title string, parentDocument *string) (*Document, error)
	GetSidebar(ctx context.Context, userID string, parentDocument *string) ([]Document, error)
	GetSearch(ctx context.Context, userID string) ([]Document, error)
	GetTrash(ctx context.Context, userID string) ([]Document, error)
	GetByID(ctx context.Context, documentID string, userID string) (*Document, error)
	Update(ctx context.Context, documentID string, userID string, input UpdateInput) (*Document, error)
	RemoveIcon(ctx context.Context, documentID string, userID string) (*Document, error)
	RemoveCoverImage(ctx context.Context, documentID string, userID string) (*Document, error)
	Archive(ctx context.Context, documentID string, userID string) (*Document, error)
	Restore(ctx context.Context, documentID string, userID string) (*Document, error)
	Remove(ctx context.Context, documentID string, userID string) (*Document, error)
}

// UpdateInput carries the patchable fields; nil means "leave as is".
// The parent reference and the owner are deliberately absent: both are
// fixed at creation time.
type UpdateInput struct {
	Title       *string
	Content     *string
	CoverImage  *string
	Icon        *string
	IsPublished *bool
}

type DefaultService struct {
	repository DocumentRepository
	runner     worker.Runner
	cache      *redis.Cache
}

func NewService(repository DocumentRepository, runner worker.Runner, cache *redis.Cache) Service {
	return &DefaultService{
		repository: repository,
		runner:     runner,
		cache:      cache,
	}
}

func (s *DefaultService) Create(ctx context.Context, userID string, title string, parentDocument *string) (*Document, error) {
	if title == "" {
		return nil, errors.UnprocessableEntity("Title cannot be empty", nil)
	}

	doc := &Document{
		Title:          title,
		ParentDocument: parentDocument,
		UserID:         userID,
		IsArchived:     false,
		IsPublished:    false,
	}
	if err := s.repository.Create(ctx, doc); err != nil {
		return nil, err
	}

	s.bumpListVersion(ctx, userID)
	return doc, nil
}

func (s *DefaultService) GetSidebar(ctx context.Context, userID string, parentDocument *string) ([]Document, error) {
	versionKey := listVersionKey(userID)
	v := s.cache.GetVersion(ctx, versionKey)

	parentKey := "root"
	if parentDocument != nil {
		parentKey = *parentDocument
	}
	cacheKey := fmt.Sprintf("docs:sidebar:u:%s:v:%d:p:%s", userID, v, parentKey)

	var cached []Document
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	docs, err := s.repository.ListByParent(ctx, userID, parentDocument, false)
	if err != nil {
		return nil, err
	}

	go s.cache.Set(context.Background(), cacheKey, docs, 24*time.Hour)
	return docs, nil
}

func (s *DefaultService) GetSearch(ctx context.Context, userID string) ([]Document, error) {
	versionKey := listVersionKey(userID)
	v := s.cache.GetVersion(ctx, versionKey)
	cacheKey := fmt.Sprintf("docs:search:u:%s:v:%d", userID, v)

	var cached []Document
	if found, _ := s.cache.Get(ctx, cacheKey, &cached); found {
		return cached, nil
	}

	docs, err := s.repository.ListByOwner(ctx, userID, false)
	if err != nil {
		return nil, err
	}

	go s.cache.Set(context.Background(), cacheKey, docs, 24*time.Hour)
	return docs, nil
}

func (s *DefaultService) GetTrash(ctx context.Context, userID string) ([]Document, error) {
	return s.repository.ListByOwner(ctx, userID, true)
}

// GetByID is the only operation open to anonymous callers: a published
// non-archived document is world-readable. The not-found check comes
// first so owners and strangers see the same error for a missing id.
func (s *DefaultService) GetByID(ctx context.Context, documentID string, userID string) (*Document, error) {
	doc, err := s.repository.FindByID(ctx, documentID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}

	if doc.IsPublished && !doc.IsArchived {
		return doc, nil
	}

	if userID == "" {
		return nil, errors.Unauthorized("Not authenticated", nil)
	}
	if doc.UserID != userID {
		return nil, errors.Forbidden("Not the document owner", nil)
	}

	return doc, nil
}

func (s *DefaultService) Update(ctx context.Context, documentID string, userID string, input UpdateInput) (*Document, error) {
	if _, err := s.ownedDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if input.Title != nil {
		if *input.Title == "" {
			return nil, errors.UnprocessableEntity("Title cannot be empty", nil)
		}
		fields["title"] = *input.Title
	}
	if input.Content != nil {
		fields["content"] = *input.Content
	}
	if input.CoverImage != nil {
		fields["cover_image"] = *input.CoverImage
	}
	if input.Icon != nil {
		fields["icon"] = *input.Icon
	}
	if input.IsPublished != nil {
		fields["is_published"] = *input.IsPublished
	}
	if len(fields) == 0 {
		return s.repository.FindByID(ctx, documentID)
	}

	doc, err := s.repository.Patch(ctx, documentID, fields)
	if err != nil {
		return nil, err
	}

	s.bumpListVersion(ctx, userID)
	return doc, nil
}

func (s *DefaultService) RemoveIcon(ctx context.Context, documentID string, userID string) (*Document, error) {
	return s.clearField(ctx, documentID, userID, "icon")
}

func (s *DefaultService) RemoveCoverImage(ctx context.Context, documentID string, userID string) (*Document, error) {
	return s.clearField(ctx, documentID, userID, "cover_image")
}

func (s *DefaultService) clearField(ctx context.Context, documentID string, userID string, column string) (*Document, error) {
	if _, err := s.ownedDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}

	doc, err := s.repository.Patch(ctx, documentID, map[string]any{column: nil})
	if err != nil {
		return nil, err
	}

	s.bumpListVersion(ctx, userID)
	return doc, nil
}

// Archive soft-deletes a document. The target's patch is awaited and
// returned; the recursive walk over its descendants runs on the task
// queue, so the caller can observe the parent archived before the
// subtree catches up.
func (s *DefaultService) Archive(ctx context.Context, documentID string, userID string) (*Document, error) {
	if _, err := s.ownedDocument(ctx, documentID, userID); err != nil {
		return nil, err
	}

	doc, err := s.repository.Patch(ctx, documentID, map[string]any{"is_archived": true})
	if err != nil {
		return nil, err
	}

	s.submitCascade(userID, documentID, true)

	s.bumpListVersion(ctx, userID)
	return doc, nil
}

// Restore un-archives a document. When its recorded parent still exists
// and is itself archived, the parent reference is cleared so the
// document comes back at root level instead of hanging under a trashed
// ancestor. A dangling parent reference is left alone. Descendants are
// un-archived by the same detached cascade as Archive.
func (s *DefaultService) Restore(ctx context.Context, documentID string, userID string) (*Document, error) {
	existing, err := s.ownedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{"is_archived": false}
	if existing.ParentDocument != nil {
		parent, err := s.repository.FindByID(ctx, *existing.ParentDocument)
		if err == nil && parent.IsArchived {
			fields["parent_document"] = nil
		}
	}

	doc, err := s.repository.Patch(ctx, documentID, fields)
	if err != nil {
		return nil, err
	}

	s.submitCascade(userID, documentID, false)

	s.bumpListVersion(ctx, userID)
	return doc, nil
}

// Remove hard-deletes a single row. Children are not touched: they keep
// their parent reference to the now-missing id and are treated as roots
// from then on.
func (s *DefaultService) Remove(ctx context.Context, documentID string, userID string) (*Document, error) {
	existing, err := s.ownedDocument(ctx, documentID, userID)
	if err != nil {
		return nil, err
	}

	if err := s.repository.Delete(ctx, documentID); err != nil {
		return nil, err
	}

	s.bumpListVersion(ctx, userID)
	return existing, nil
}

// ownedDocument resolves the target and enforces the ownership
// capability: the caller subject must equal the stored owner.
func (s *DefaultService) ownedDocument(ctx context.Context, documentID string, userID string) (*Document, error) {
	doc, err := s.repository.FindByID(ctx, documentID)
	if err != nil {
		if defError.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.NotFound("Document not found", err)
		}
		return nil, err
	}
	if doc.UserID != userID {
		return nil, errors.Forbidden("Not the document owner", nil)
	}
	return doc, nil
}

// submitCascade hands the subtree walk to the worker pool. Nothing is
// awaited and nothing is reported back to the caller; a failed step is
// logged, leaves earlier patches in place and abandons the rest of that
// branch. There is no rollback.
func (s *DefaultService) submitCascade(userID string, documentID string, archived bool) {
	s.runner.Submit(func(ctx context.Context) error {
		if err := s.cascade(ctx, userID, documentID, archived); err != nil {
			logger.Sugar.Errorw("document cascade failed",
				"document_id", documentID,
				"user_id", userID,
				"archived", archived,
				"err", err,
			)
			return err
		}
		// listings cached before the cascade finished are stale now
		s.bumpListVersion(ctx, userID)
		return nil
	})
}

// cascade walks the subtree depth-first: patch a child, recurse into
// it, move to the next sibling. Sibling order is whatever the store
// returns. The tree is acyclic by construction (a parent can only be a
// pre-existing document and is never re-pointed), so no cycle guard.
func (s *DefaultService) cascade(ctx context.Context, userID string, documentID string, archived bool) error {
	children, err := s.repository.ListChildren(ctx, userID, documentID)
	if err != nil {
		return err
	}

	for _, child := range children {
		if _, err := s.repository.Patch(ctx, child.ID, map[string]any{"is_archived": archived}); err != nil {
			return err
		}
		if err := s.cascade(ctx, userID, child.ID, archived); err != nil {
			return err
		}
	}

	return nil
}

func listVersionKey(userID string) string {
	return fmt.Sprintf("user:%s:docs:version", userID)
}

func (s *DefaultService) bumpListVersion(ctx context.Context, userID string) {
	s.cache.IncrementVersion(ctx, listVersionKey(userID))
}
