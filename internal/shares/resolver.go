package shares

import (
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"mementiq-backend/internal/frameio"
	"mementiq-backend/internal/models"
)

// Source tags which cascade tier produced a resolution.
type Source string

const (
	SourceProjectCache Source = "cached"
	SourceAssetCache   Source = "asset_cached"
	SourceFound        Source = "found"
	SourceCreated      Source = "created"
)

// Resolution is the outcome of one resolve call. Policy records the
// comment-setting verification for this call; a failed verification
// never withholds the link.
type Resolution struct {
	URL     string
	ShareID string
	Source  Source
	Policy  models.SideEffect
}

// ShareAPI is the slice of the asset store the resolver needs.
type ShareAPI interface {
	FindExistingShare(folderRef, assetID string) (*frameio.Share, error)
	CreateShare(assetID, title string, commentsEnabled bool) (*frameio.Share, error)
	GetShareCommentSetting(shareID string) (bool, error)
	SetShareCommentSetting(shareID string, enabled bool) error
	RetryWithBackoff(fn func() error, maxRetries int) error
}

// Store persists share caches and the share/asset correlation rows.
type Store interface {
	GetAssetShare(assetID string) (*models.AssetShare, error)
	SaveProjectShare(projectID uuid.UUID, shareID, url string) error
	SaveAssetShare(share *models.AssetShare) error
	CreateShareAssetMapping(m *models.ShareAssetMapping) error
}

// Resolver produces a public, durable link for a delivered asset. It is
// idempotent: repeat calls return the same link and a new external share
// is minted only when no usable one exists anywhere in the cascade.
type Resolver struct {
	api          ShareAPI
	store        Store
	publicDomain string
}

func NewResolver(api ShareAPI, store Store, publicDomain string) *Resolver {
	return &Resolver{
		api:          api,
		store:        store,
		publicDomain: publicDomain,
	}
}

// Resolve walks the priority cascade: project cache, asset cache,
// existing external share, freshly minted share. Whatever tier wins, the
// link's comment setting is verified against the requested policy before
// returning. Cached URLs that fail the public-shape check fall through
// to the next tier instead of being returned.
func (r *Resolver) Resolve(p *models.Project, asset models.Candidate, commentsEnabled bool) (*Resolution, error) {
	// Tier 1: project-level cache. Fast path for repeat callers.
	if p.DeliveryShareURL.Valid && r.isPublicURL(p.DeliveryShareURL.String) {
		res := &Resolution{
			URL:     p.DeliveryShareURL.String,
			ShareID: p.DeliveryShareID.String,
			Source:  SourceProjectCache,
		}
		res.Policy = r.enforceCommentPolicy(res.ShareID, commentsEnabled)
		return res, nil
	}

	// Tier 2: asset-level cache. Backfills the project cache so the
	// next resolve takes tier 1.
	cached, err := r.store.GetAssetShare(asset.AssetID)
	if err != nil {
		return nil, fmt.Errorf("failed to read asset share cache: %w", err)
	}
	if cached != nil && r.isPublicURL(cached.ShareURL) {
		if err := r.store.SaveProjectShare(p.ID, cached.ShareID, cached.ShareURL); err != nil {
			log.Printf("Failed to backfill project share cache for %s: %v", p.ID, err)
		}
		res := &Resolution{
			URL:     cached.ShareURL,
			ShareID: cached.ShareID,
			Source:  SourceAssetCache,
		}
		res.Policy = r.enforceCommentPolicy(res.ShareID, commentsEnabled)
		return res, nil
	}

	// Tier 3: an existing external share targeting this exact asset.
	// The external calls below retry: a transient failure here would
	// otherwise cost a delivery its durable link.
	var existing *frameio.Share
	err = r.api.RetryWithBackoff(func() error {
		var findErr error
		existing, findErr = r.api.FindExistingShare(p.MediaFolderRef.String, asset.AssetID)
		return findErr
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing share: %w", err)
	}
	if existing != nil && r.isPublicURL(existing.ShortURL) {
		r.persist(p, asset, existing)
		res := &Resolution{
			URL:     existing.ShortURL,
			ShareID: existing.ID,
			Source:  SourceFound,
		}
		res.Policy = r.enforceCommentPolicy(res.ShareID, commentsEnabled)
		return res, nil
	}

	// Tier 4: mint a new share with the baseline comment policy.
	var created *frameio.Share
	err = r.api.RetryWithBackoff(func() error {
		var createErr error
		created, createErr = r.api.CreateShare(asset.AssetID, fmt.Sprintf("%s Delivery", p.Title), true)
		return createErr
	}, 3)
	if err != nil {
		return nil, fmt.Errorf("failed to create share: %w", err)
	}
	r.persist(p, asset, created)

	res := &Resolution{
		URL:     created.ShortURL,
		ShareID: created.ID,
		Source:  SourceCreated,
	}
	res.Policy = r.enforceCommentPolicy(res.ShareID, commentsEnabled)
	return res, nil
}

// persist caches the share at project and asset level and records the
// correlation row. The external store stays the source of truth, so
// cache write failures are logged and the link is returned anyway.
func (r *Resolver) persist(p *models.Project, asset models.Candidate, share *frameio.Share) {
	if err := r.store.SaveProjectShare(p.ID, share.ID, share.ShortURL); err != nil {
		log.Printf("Failed to cache share on project %s: %v", p.ID, err)
	}
	if err := r.store.SaveAssetShare(&models.AssetShare{
		AssetID:   asset.AssetID,
		ProjectID: p.ID,
		ShareID:   share.ID,
		ShareURL:  share.ShortURL,
	}); err != nil {
		log.Printf("Failed to cache share for asset %s: %v", asset.AssetID, err)
	}
	if err := r.store.CreateShareAssetMapping(&models.ShareAssetMapping{
		ShareID:         share.ID,
		ProjectID:       p.ID,
		AssetID:         asset.AssetID,
		AssetType:       asset.AssetType,
		ParentFolderRef: p.MediaFolderRef.String,
	}); err != nil {
		log.Printf("Failed to record share asset mapping for %s: %v", share.ID, err)
	}
}

// enforceCommentPolicy verifies the share's comment visibility matches
// the requested policy and issues a correction when it does not. Both
// calls are best-effort: a link with a wrong comment setting is still
// returned rather than withheld.
func (r *Resolver) enforceCommentPolicy(shareID string, desired bool) models.SideEffect {
	const effect = "comment_policy"

	if shareID == "" {
		return models.SideEffect{Name: effect, OK: false, Reason: "share id unknown"}
	}

	current, err := r.api.GetShareCommentSetting(shareID)
	if err != nil {
		log.Printf("Failed to read comment setting for share %s: %v", shareID, err)
		return models.EffectFailed(effect, err)
	}

	if current == desired {
		return models.EffectOK(effect)
	}

	if err := r.api.SetShareCommentSetting(shareID, desired); err != nil {
		log.Printf("Failed to correct comment setting for share %s: %v", shareID, err)
		return models.EffectFailed(effect, err)
	}

	log.Printf("Corrected comment setting for share %s to %t", shareID, desired)
	return models.EffectOK(effect)
}

func (r *Resolver) isPublicURL(url string) bool {
	return url != "" && strings.Contains(url, r.publicDomain)
}
