package fleet

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/kevanaenterprises-bot/LoadTracker-Pro-2026-sub000/trackerservices/database"
)

// AttachDocument stores a paperwork file for a load and records it.
func (service *Service) AttachDocument(ctx context.Context, loadID int64, kind DocumentKind, name string, contents io.Reader) (*LoadDocument, error) {
	if !kind.Valid() {
		return nil, RequestError{Field: "kind", Reason: fmt.Sprintf("%q is not a document kind", kind)}
	}

	name = path.Base(name)
	if name == "." || name == "/" {
		return nil, RequestError{Field: "name", Reason: "is required"}
	}

	if _, err := service.Load(ctx, loadID); err != nil {
		return nil, fmt.Errorf("load %d: %w", loadID, err)
	}

	document := LoadDocument{
		LoadID:     loadID,
		Kind:       kind,
		Name:       name,
		StorageKey: fmt.Sprintf("loads/%d/%s-%s", loadID, uuid.NewString(), name),
	}

	if err := service.storage.Put(ctx, document.StorageKey, contents); err != nil {
		return nil, fmt.Errorf("store %s: %w", document.StorageKey, err)
	}

	stored, err := writeOne[LoadDocument](ctx,
		service.from("load_documents").Insert(document).Select("*"),
		func() *database.QueryBuilder {
			return service.from("load_documents").Eq("storage_key", document.StorageKey)
		},
	)
	if err != nil {
		if deleteErr := service.storage.Delete(ctx, document.StorageKey); deleteErr != nil {
			service.logger.ErrorContext(ctx, "Remove Orphaned Document",
				"key", document.StorageKey,
				"error", deleteErr,
			)
		}

		return nil, err
	}

	return stored, nil
}

func (service *Service) Documents(ctx context.Context, loadID int64) ([]LoadDocument, error) {
	return database.FetchManyInto[LoadDocument](ctx,
		service.from("load_documents").
			Eq("load_id", loadID).
			Order("id"),
	)
}

// DocumentLink returns a download link for a stored document valid for ttl.
func (service *Service) DocumentLink(ctx context.Context, documentID int64, ttl time.Duration) (string, error) {
	document, err := database.FetchOneInto[LoadDocument](ctx,
		service.from("load_documents").Eq("id", documentID),
	)
	if err != nil {
		return "", err
	}

	if document == nil {
		return "", ErrNotFound
	}

	return service.storage.PreSignedURL(ctx, document.StorageKey, ttl)
}
