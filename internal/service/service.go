package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"hanzi/internal/codec"
	"hanzi/internal/domain"
	"hanzi/internal/repository"
)

// VocabularyService provides business logic over the vocabulary store
type VocabularyService struct {
	repo     repository.Repository
	eventBus *EventBus
}

// NewVocabularyService creates a new vocabulary service. A nil bus gets a
// private one with no subscribers.
func NewVocabularyService(repo repository.Repository, eventBus *EventBus) *VocabularyService {
	if eventBus == nil {
		eventBus = NewEventBus()
	}
	return &VocabularyService{
		repo:     repo,
		eventBus: eventBus,
	}
}

// ============================================================================
// Characters
// ============================================================================

// ListCharacters returns every character
func (s *VocabularyService) ListCharacters(ctx context.Context) ([]domain.Character, error) {
	return s.repo.ListCharacters(ctx)
}

// GetCharacter looks a character up by reference. A numeric ref is tried
// as an id first and then as text, since digits are valid text forms.
func (s *VocabularyService) GetCharacter(ctx context.Context, ref string) (*domain.Character, error) {
	if id, err := strconv.ParseInt(ref, 10, 64); err == nil {
		c, err := s.repo.GetCharacter(ctx, id)
		if err == nil {
			return c, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
	}
	return s.repo.GetCharacterByText(ctx, ref)
}

// CreateCharacter inserts a character and registers its tags
func (s *VocabularyService) CreateCharacter(ctx context.Context, in domain.CharacterInput) (*domain.Character, error) {
	c, err := s.repo.CreateCharacter(ctx, in)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventCharacterCreated,
		Payload: c,
	})

	return c, nil
}

// UpdateCharacter overwrites a character; a missing id is a no-op
func (s *VocabularyService) UpdateCharacter(ctx context.Context, id int64, in domain.CharacterInput) error {
	if err := s.repo.UpdateCharacter(ctx, id, in); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventCharacterUpdated,
		Payload: map[string]int64{"id": id},
	})

	return nil
}

// DeleteCharacter removes a character; a missing id is a no-op
func (s *VocabularyService) DeleteCharacter(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCharacter(ctx, id); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventCharacterDeleted,
		Payload: map[string]int64{"id": id},
	})

	return nil
}

// ============================================================================
// Batches and groups
// ============================================================================

// ListBatches returns every batch
func (s *VocabularyService) ListBatches(ctx context.Context) ([]domain.Batch, error) {
	return s.repo.ListBatches(ctx)
}

// CreateBatch appends a batch
func (s *VocabularyService) CreateBatch(ctx context.Context, in domain.CollectionInput) (*domain.Batch, error) {
	b, err := s.repo.CreateBatch(ctx, in)
	if err != nil {
		return nil, err
	}
	s.publishCollection(EventBatchesChanged, "created", b.ID)
	return b, nil
}

// ReplaceBatches swaps the whole batch table for inputs
func (s *VocabularyService) ReplaceBatches(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Batch, error) {
	batches, err := s.repo.ReplaceBatches(ctx, inputs)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventBatchesChanged,
		Payload: map[string]any{"action": "replaced", "count": len(batches)},
	})

	return batches, nil
}

// UpdateBatch rewrites a batch; a missing id is a no-op
func (s *VocabularyService) UpdateBatch(ctx context.Context, id int64, in domain.CollectionInput) error {
	if err := s.repo.UpdateBatch(ctx, id, in); err != nil {
		return err
	}
	s.publishCollection(EventBatchesChanged, "updated", id)
	return nil
}

// DeleteBatch removes a batch; a missing id is a no-op
func (s *VocabularyService) DeleteBatch(ctx context.Context, id int64) error {
	if err := s.repo.DeleteBatch(ctx, id); err != nil {
		return err
	}
	s.publishCollection(EventBatchesChanged, "deleted", id)
	return nil
}

// ListGroups returns every group
func (s *VocabularyService) ListGroups(ctx context.Context) ([]domain.Group, error) {
	return s.repo.ListGroups(ctx)
}

// CreateGroups inserts each input as its own group
func (s *VocabularyService) CreateGroups(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Group, error) {
	groups, err := s.repo.CreateGroups(ctx, inputs)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventGroupsChanged,
		Payload: map[string]any{"action": "created", "count": len(groups)},
	})

	return groups, nil
}

// UpdateGroup rewrites a group; a missing id is a no-op
func (s *VocabularyService) UpdateGroup(ctx context.Context, id int64, in domain.CollectionInput) error {
	if err := s.repo.UpdateGroup(ctx, id, in); err != nil {
		return err
	}
	s.publishCollection(EventGroupsChanged, "updated", id)
	return nil
}

// DeleteGroup removes a group; a missing id is a no-op
func (s *VocabularyService) DeleteGroup(ctx context.Context, id int64) error {
	if err := s.repo.DeleteGroup(ctx, id); err != nil {
		return err
	}
	s.publishCollection(EventGroupsChanged, "deleted", id)
	return nil
}

func (s *VocabularyService) publishCollection(t EventType, action string, id int64) {
	s.eventBus.Publish(Event{
		Type:    t,
		Payload: map[string]any{"action": action, "id": id},
	})
}

// ============================================================================
// Tags and settings
// ============================================================================

// ListTags returns the tag registry
func (s *VocabularyService) ListTags(ctx context.Context) ([]string, error) {
	return s.repo.ListTags(ctx)
}

// GetSetting returns a setting value, "" when unset
func (s *VocabularyService) GetSetting(ctx context.Context, key string) (string, error) {
	return s.repo.GetSetting(ctx, key)
}

// SetSetting stores a setting value
func (s *VocabularyService) SetSetting(ctx context.Context, key, value string) error {
	if key == "" {
		return fmt.Errorf("setting key required")
	}
	if err := s.repo.SetSetting(ctx, key, value); err != nil {
		return err
	}

	s.eventBus.Publish(Event{
		Type:    EventSettingUpdated,
		Payload: map[string]string{"key": key, "value": value},
	})

	return nil
}

// GetLastReviewed returns the last reviewed character reference
func (s *VocabularyService) GetLastReviewed(ctx context.Context) (string, error) {
	return s.GetSetting(ctx, domain.LastReviewedKey)
}

// SetLastReviewed stores the last reviewed character reference
func (s *VocabularyService) SetLastReviewed(ctx context.Context, value string) error {
	return s.SetSetting(ctx, domain.LastReviewedKey, value)
}

// ============================================================================
// Import / export
// ============================================================================

// Export returns the full export document
func (s *VocabularyService) Export(ctx context.Context) (*domain.Snapshot, error) {
	return s.repo.Export(ctx)
}

// ExportTo writes the export document in format ("json" or "yaml")
func (s *VocabularyService) ExportTo(ctx context.Context, format string, w io.Writer) (*domain.Snapshot, error) {
	exporter, err := codec.NewExporter(format)
	if err != nil {
		return nil, err
	}

	snap, err := s.repo.Export(ctx)
	if err != nil {
		return nil, err
	}

	if err := exporter.Export(snap, w); err != nil {
		return nil, err
	}
	return snap, nil
}

// Import restores a snapshot in one transaction
func (s *VocabularyService) Import(ctx context.Context, snap *domain.Snapshot) (*domain.ImportStats, error) {
	stats, err := s.repo.Import(ctx, snap)
	if err != nil {
		return nil, err
	}

	s.eventBus.Publish(Event{
		Type:    EventDataImported,
		Payload: stats,
	})

	return stats, nil
}

// ImportFrom parses r with the importer for format and imports the result.
// Nothing is written when parsing fails.
func (s *VocabularyService) ImportFrom(ctx context.Context, format string, r io.Reader) (*domain.ImportStats, error) {
	importer, err := codec.NewImporter(format)
	if err != nil {
		return nil, err
	}

	snap, err := importer.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s import: %w", importer.Format(), err)
	}

	return s.Import(ctx, snap)
}

// ImportFile imports the file at path in format
func (s *VocabularyService) ImportFile(ctx context.Context, format, path string) (*domain.ImportStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open import file: %w", err)
	}
	defer f.Close()

	return s.ImportFrom(ctx, format, f)
}
