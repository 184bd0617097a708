package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ilanmarket/listing-service/internal/listing/domain"
	"github.com/ilanmarket/listing-service/internal/listing/schema"
	"github.com/ilanmarket/listing-service/internal/listing/slugify"
)

// EventPublisher notifies downstream consumers of listing lifecycle changes.
// Publish failures are logged and never fail the operation.
type EventPublisher interface {
	PublishListingCreated(ctx context.Context, listing *domain.Listing) error
	PublishListingUpdated(ctx context.Context, listingID int64) error
	PublishListingRepublished(ctx context.Context, listingID int64) error
	PublishListingsArchived(ctx context.Context, ownerID string, count int64) error
}

// CreateResult is what createListing returns to the caller.
type CreateResult struct {
	ID         int64  `json:"id"`
	SerialCode string `json:"serialCode"`
}

// WriteUsecase is the sole entry point for creating and mutating listings and
// their dependent translation/media rows.
type WriteUsecase struct {
	listings     domain.ListingRepository
	translations domain.TranslationRepository
	media        domain.MediaRepository
	tx           domain.Transactor
	translator   domain.Translator
	sanitizer    domain.Sanitizer
	cache        domain.ListingCache
	events       EventPublisher
	logger       *zap.Logger
	now          func() time.Time
}

func NewWriteUsecase(
	listings domain.ListingRepository,
	translations domain.TranslationRepository,
	media domain.MediaRepository,
	tx domain.Transactor,
	translator domain.Translator,
	sanitizer domain.Sanitizer,
	cache domain.ListingCache,
	events EventPublisher,
	logger *zap.Logger,
) *WriteUsecase {
	return &WriteUsecase{
		listings:     listings,
		translations: translations,
		media:        media,
		tx:           tx,
		translator:   translator,
		sanitizer:    sanitizer,
		cache:        cache,
		events:       events,
		logger:       logger,
		now:          time.Now,
	}
}

// localizedText is the translated title/description pair for one language.
type localizedText struct {
	Title       string
	Description string
}

// CreateListing validates, sanitizes, fans out translations and persists the
// listing with its translations and media in one atomic transaction. It
// returns the generated id and derived serial code.
func (uc *WriteUsecase) CreateListing(ctx context.Context, ownerID string, sub schema.Submission) (*CreateResult, error) {
	attrs, verr := schema.Validate(sub)
	if verr != nil {
		return nil, verr
	}

	title := uc.sanitizer.SanitizeTitle(sub.Title)
	description := uc.sanitizer.SanitizeDescription(sub.Description)

	translated, err := uc.fanOutTranslations(ctx, title, description)
	if err != nil {
		uc.logger.Error("translation fan-out failed, aborting create", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTranslationFailed, err)
	}

	// The English baseline comes from the fan-out when available; otherwise
	// the sanitized input text is used verbatim. The author's submission
	// language is not tracked separately.
	baseline, ok := translated[domain.FallbackLanguage]
	if !ok {
		baseline = localizedText{Title: title, Description: description}
	}

	now := uc.now()
	listing := &domain.Listing{
		OwnerID:    ownerID,
		Kind:       attrs.Kind(),
		Price:      sub.Price,
		Currency:   domain.Currency(sub.Currency),
		Location:   sub.Location,
		Attributes: attrs,
		Status:     domain.StatusDraft,
		IsFeatured: sub.IsFeatured,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var result CreateResult
	err = uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		id, err := uc.listings.Insert(txCtx, listing)
		if err != nil {
			return fmt.Errorf("insert listing: %w", err)
		}
		if id == 0 {
			return domain.ErrNoInsertedID
		}
		listing.ID = id

		if err := uc.translations.Insert(txCtx, &domain.Translation{
			ListingID:   id,
			Language:    domain.FallbackLanguage,
			Title:       baseline.Title,
			Description: baseline.Description,
			Slug:        slugify.Slug(baseline.Title),
		}); err != nil {
			return fmt.Errorf("insert baseline translation: %w", err)
		}

		for _, lang := range domain.SupportedLanguages {
			if lang == domain.FallbackLanguage {
				continue
			}
			text, ok := translated[lang]
			if !ok {
				continue
			}
			if err := uc.translations.Insert(txCtx, &domain.Translation{
				ListingID:   id,
				Language:    lang,
				Title:       text.Title,
				Description: text.Description,
				Slug:        slugify.Slug(text.Title),
			}); err != nil {
				return fmt.Errorf("insert %s translation: %w", lang, err)
			}
		}

		// Serial code depends on the generated id, so it lands in a second
		// update inside the same transaction.
		code := domain.SerialCode(listing.Kind, id)
		if err := uc.listings.SetSerialCode(txCtx, id, code); err != nil {
			return fmt.Errorf("set serial code: %w", err)
		}
		listing.SerialCode = code

		if err := uc.insertMediaRows(txCtx, id, sub.Images); err != nil {
			return err
		}

		result = CreateResult{ID: id, SerialCode: code}
		return nil
	})
	if err != nil {
		uc.logger.Error("create listing transaction aborted", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	uc.logger.Info("listing created",
		zap.Int64("listing_id", result.ID),
		zap.String("serial_code", result.SerialCode),
		zap.String("kind", string(listing.Kind)),
	)

	if uc.events != nil {
		if err := uc.events.PublishListingCreated(ctx, listing); err != nil {
			uc.logger.Warn("failed to publish listing created event", zap.Error(err), zap.Int64("listing_id", result.ID))
		}
	}

	return &result, nil
}

// fanOutTranslations requests title and description translations for every
// supported language concurrently. Both fields of a language must succeed;
// the first failure cancels the rest and fails the create.
func (uc *WriteUsecase) fanOutTranslations(ctx context.Context, title, description string) (map[string]localizedText, error) {
	g, gctx := errgroup.WithContext(ctx)

	var mu sync.Mutex
	out := make(map[string]localizedText, len(domain.SupportedLanguages))

	for _, lang := range domain.SupportedLanguages {
		lang := lang
		g.Go(func() error {
			translatedTitle, err := uc.translator.Translate(gctx, title, lang)
			if err != nil {
				return fmt.Errorf("translate title to %s: %w", lang, err)
			}
			translatedDescription, err := uc.translator.Translate(gctx, description, lang)
			if err != nil {
				return fmt.Errorf("translate description to %s: %w", lang, err)
			}
			mu.Lock()
			out[lang] = localizedText{Title: translatedTitle, Description: translatedDescription}
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *WriteUsecase) insertMediaRows(ctx context.Context, listingID int64, images []string) error {
	if len(images) == 0 {
		return nil
	}
	rows := make([]*domain.Media, len(images))
	for i, url := range images {
		rows[i] = &domain.Media{
			ListingID: listingID,
			URL:       url,
			Kind:      domain.MediaKindImage,
			Order:     i,
		}
	}
	if err := uc.media.InsertMany(ctx, rows); err != nil {
		return fmt.Errorf("insert media: %w", err)
	}
	return nil
}

// UpdateListing overwrites a listing's mutable fields, its single
// target-locale translation and its whole media list atomically. Unlike
// create it does not re-run the multi-language fan-out; only the requested
// locale's translation row is touched.
func (uc *WriteUsecase) UpdateListing(ctx context.Context, id int64, sub schema.Submission, locale string) error {
	attrs, verr := schema.Validate(sub)
	if verr != nil {
		return verr
	}

	existing, err := uc.listings.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.Kind != attrs.Kind() {
		return domain.ErrKindImmutable
	}

	title := uc.sanitizer.SanitizeTitle(sub.Title)
	description := uc.sanitizer.SanitizeDescription(sub.Description)
	effectiveLocale := domain.ResolveLocale(locale)

	err = uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		updated := &domain.Listing{
			ID:         id,
			Kind:       existing.Kind,
			Price:      sub.Price,
			Currency:   domain.Currency(sub.Currency),
			Location:   sub.Location,
			Attributes: attrs,
			IsFeatured: sub.IsFeatured,
			UpdatedAt:  uc.now(),
		}
		if err := uc.listings.Update(txCtx, updated); err != nil {
			return fmt.Errorf("update listing: %w", err)
		}

		if err := uc.translations.Upsert(txCtx, &domain.Translation{
			ListingID:   id,
			Language:    effectiveLocale,
			Title:       title,
			Description: description,
			Slug:        slugify.Slug(title),
		}); err != nil {
			return fmt.Errorf("upsert %s translation: %w", effectiveLocale, err)
		}

		// Media is replaced wholesale, not diffed.
		if err := uc.media.DeleteByListingID(txCtx, id); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		return uc.insertMediaRows(txCtx, id, sub.Images)
	})
	if err != nil {
		uc.logger.Error("update listing transaction aborted", zap.Error(err), zap.Int64("listing_id", id))
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}

	uc.invalidateCache(ctx, id)

	if uc.events != nil {
		if err := uc.events.PublishListingUpdated(ctx, id); err != nil {
			uc.logger.Warn("failed to publish listing updated event", zap.Error(err), zap.Int64("listing_id", id))
		}
	}
	return nil
}

// IncrementView bumps the view counter. The increment is atomic at the
// storage layer; concurrent read traffic cannot lose updates.
func (uc *WriteUsecase) IncrementView(ctx context.Context, id int64) error {
	return uc.listings.IncrementViewCount(ctx, id)
}

// CheckExpirations archives the owner's published listings whose creation
// date fell out of the retention window and returns how many were archived.
// It runs synchronously on demand so the caller sees up-to-date statuses.
func (uc *WriteUsecase) CheckExpirations(ctx context.Context, ownerID string) (int64, error) {
	cutoff := uc.now().Add(-domain.ExpirationWindow)
	archived, err := uc.listings.ArchiveExpired(ctx, ownerID, cutoff)
	if err != nil {
		return 0, fmt.Errorf("archive expired listings: %w", err)
	}
	if archived > 0 {
		uc.logger.Info("archived expired listings",
			zap.String("owner_id", ownerID),
			zap.Int64("count", archived),
		)
		if uc.events != nil {
			if err := uc.events.PublishListingsArchived(ctx, ownerID, archived); err != nil {
				uc.logger.Warn("failed to publish listings archived event", zap.Error(err), zap.String("owner_id", ownerID))
			}
		}
	}
	return archived, nil
}

// Republish bumps a listing: it goes back to published and its creation time
// resets to now, so it re-enters the expiration window and sorts as new.
func (uc *WriteUsecase) Republish(ctx context.Context, id int64) error {
	if err := uc.listings.Republish(ctx, id, uc.now()); err != nil {
		return err
	}
	uc.invalidateCache(ctx, id)

	if uc.events != nil {
		if err := uc.events.PublishListingRepublished(ctx, id); err != nil {
			uc.logger.Warn("failed to publish listing republished event", zap.Error(err), zap.Int64("listing_id", id))
		}
	}
	return nil
}

// DeleteListing removes the listing and its owned translation/media rows in
// one transaction.
func (uc *WriteUsecase) DeleteListing(ctx context.Context, id int64) error {
	err := uc.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.translations.DeleteByListingID(txCtx, id); err != nil {
			return fmt.Errorf("delete translations: %w", err)
		}
		if err := uc.media.DeleteByListingID(txCtx, id); err != nil {
			return fmt.Errorf("delete media: %w", err)
		}
		if err := uc.listings.Delete(txCtx, id); err != nil {
			return fmt.Errorf("delete listing: %w", err)
		}
		return nil
	})
	if err != nil {
		// A missing listing is the caller's error, not a storage failure.
		if errors.Is(err, domain.ErrListingNotFound) {
			return domain.ErrListingNotFound
		}
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}
	uc.invalidateCache(ctx, id)
	return nil
}

func (uc *WriteUsecase) invalidateCache(ctx context.Context, id int64) {
	if uc.cache == nil {
		return
	}
	for _, lang := range domain.SupportedLanguages {
		key := listingCacheKey(id, lang)
		if err := uc.cache.Delete(ctx, key); err != nil {
			uc.logger.Warn("failed to invalidate listing cache", zap.String("key", key), zap.Error(err))
		}
	}
}
