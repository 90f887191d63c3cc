package core

import (
	"context"
	"fmt"
	"io"

	blobcore "setcore/internal/blob/core"
	"setcore/pkg/domain"
)

// findScopedResource resolves a resource inside the caller's organization.
// Unknown and cross-tenant resource ids both report NotFound so existence is
// never leaked across tenants.
func findScopedResource(tx domain.Transaction, scope Scope, resourceID string) (Resource, error) {
	resource, ok := tx.FindResource(resourceID)
	if !ok || resource.OrganizationID != scope.OrganizationID {
		return Resource{}, domain.NotFoundError{Entity: domain.EntityResource, ID: resourceID}
	}
	return resource, nil
}

// CreateResource attaches a new resource to a song. Every resource starts in
// the queued state.
func (s *Service) CreateResource(ctx context.Context, scope Scope, songID string, input ResourceInput) (Resource, Result, error) {
	var created Resource
	if err := domain.ValidateResourceInput(input.Title, input.URL); err != nil {
		return created, Result{}, err
	}
	res, err := s.run(ctx, scope, "create_resource", domain.EntityResource, &created.ID, func(tx domain.Transaction) error {
		if _, err := findScopedSong(tx, scope, songID); err != nil {
			return err
		}
		var err error
		created, err = tx.CreateResource(Resource{
			OrganizationID: scope.OrganizationID,
			SongID:         songID,
			Title:          input.Title,
			URL:            input.URL,
		})
		return err
	})
	return created, res, err
}

// RequestResourceTransition moves a resource to the target status. All six
// directed edges among queued, ready, and failed are legal; a transition to
// the current status is an idempotent no-op that leaves the record and its
// transition timestamp untouched.
func (s *Service) RequestResourceTransition(ctx context.Context, scope Scope, resourceID string, target ResourceStatus) (Resource, Result, error) {
	var updated Resource
	if !target.Valid() {
		return updated, Result{}, domain.ValidationError{Field: "status", Reason: fmt.Sprintf("unknown resource status %q", target)}
	}
	res, err := s.run(ctx, scope, "request_resource_transition", domain.EntityResource, &updated.ID, func(tx domain.Transaction) error {
		resource, err := findScopedResource(tx, scope, resourceID)
		if err != nil {
			return err
		}
		if resource.Status == target {
			updated = resource
			return nil
		}
		now := s.clock().UTC()
		updated, err = tx.UpdateResource(resourceID, func(r *Resource) error {
			r.Status = target
			r.StatusChangedAt = now
			return nil
		})
		return err
	})
	return updated, res, err
}

// ListSongResources returns the song's resources ordered by creation time.
func (s *Service) ListSongResources(ctx context.Context, scope Scope, songID string) ([]Resource, error) {
	var out []Resource
	err := s.read(ctx, scope, "list_song_resources", func(v domain.TransactionView) error {
		song, ok := v.FindSong(songID)
		if !ok || song.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntitySong, ID: songID}
		}
		out = v.ListResourcesOf(songID)
		return nil
	})
	return out, err
}

// DeleteResource removes a resource record and any stored content blob.
func (s *Service) DeleteResource(ctx context.Context, scope Scope, resourceID string) (Result, error) {
	var contentKey *string
	res, err := s.run(ctx, scope, "delete_resource", domain.EntityResource, &resourceID, func(tx domain.Transaction) error {
		resource, err := findScopedResource(tx, scope, resourceID)
		if err != nil {
			return err
		}
		contentKey = resource.ContentKey
		return tx.DeleteResource(resourceID)
	})
	if err == nil && contentKey != nil && s.blobs != nil {
		if _, delErr := s.blobs.Delete(ctx, *contentKey); delErr != nil {
			s.logger.Error("delete_resource_content", "key", *contentKey, "error", delErr)
		}
	}
	return res, err
}

// AttachResourceContent streams content into the blob store and records its
// key on the resource. Requires a blob store to be configured.
func (s *Service) AttachResourceContent(ctx context.Context, scope Scope, resourceID, contentType string, r io.Reader) (blobcore.Info, Result, error) {
	if s.blobs == nil {
		return blobcore.Info{}, Result{}, fmt.Errorf("no blob store configured")
	}
	var key string
	err := s.read(ctx, scope, "resolve_resource_content", func(v domain.TransactionView) error {
		resource, ok := v.FindResource(resourceID)
		if !ok || resource.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntityResource, ID: resourceID}
		}
		key = contentKeyFor(scope.OrganizationID, resourceID)
		return nil
	})
	if err != nil {
		return blobcore.Info{}, Result{}, err
	}
	info, err := s.blobs.Put(ctx, key, r, blobcore.PutOptions{ContentType: contentType})
	if err != nil {
		return blobcore.Info{}, Result{}, fmt.Errorf("store resource content: %w", err)
	}
	res, err := s.run(ctx, scope, "attach_resource_content", domain.EntityResource, &resourceID, func(tx domain.Transaction) error {
		if _, err := findScopedResource(tx, scope, resourceID); err != nil {
			return err
		}
		_, err := tx.UpdateResource(resourceID, func(r *Resource) error {
			r.ContentKey = &key
			return nil
		})
		return err
	})
	return info, res, err
}

// OpenResourceContent returns the stored content blob for a resource. A
// resource without attached content reports NotFound.
func (s *Service) OpenResourceContent(ctx context.Context, scope Scope, resourceID string) (blobcore.Info, io.ReadCloser, error) {
	if s.blobs == nil {
		return blobcore.Info{}, nil, fmt.Errorf("no blob store configured")
	}
	var key string
	err := s.read(ctx, scope, "open_resource_content", func(v domain.TransactionView) error {
		resource, ok := v.FindResource(resourceID)
		if !ok || resource.OrganizationID != scope.OrganizationID {
			return domain.NotFoundError{Entity: domain.EntityResource, ID: resourceID}
		}
		if resource.ContentKey == nil {
			return domain.NotFoundError{Entity: domain.EntityResource, ID: resourceID}
		}
		key = *resource.ContentKey
		return nil
	})
	if err != nil {
		return blobcore.Info{}, nil, err
	}
	return s.blobs.Get(ctx, key)
}

func contentKeyFor(organizationID, resourceID string) string {
	return fmt.Sprintf("resources/%s/%s", organizationID, resourceID)
}
