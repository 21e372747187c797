package repository

import (
	"context"

	"hanzi/internal/domain"
)

// Repository defines data access for the vocabulary store.
type Repository interface {
	// Characters
	ListCharacters(ctx context.Context) ([]domain.Character, error)
	GetCharacter(ctx context.Context, id int64) (*domain.Character, error)
	GetCharacterByText(ctx context.Context, text string) (*domain.Character, error)
	CreateCharacter(ctx context.Context, in domain.CharacterInput) (*domain.Character, error)
	UpdateCharacter(ctx context.Context, id int64, in domain.CharacterInput) error
	DeleteCharacter(ctx context.Context, id int64) error

	// Batches
	ListBatches(ctx context.Context) ([]domain.Batch, error)
	CreateBatch(ctx context.Context, in domain.CollectionInput) (*domain.Batch, error)
	UpdateBatch(ctx context.Context, id int64, in domain.CollectionInput) error
	DeleteBatch(ctx context.Context, id int64) error
	ReplaceBatches(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Batch, error)

	// Groups
	ListGroups(ctx context.Context) ([]domain.Group, error)
	CreateGroups(ctx context.Context, inputs []domain.CollectionInput) ([]domain.Group, error)
	UpdateGroup(ctx context.Context, id int64, in domain.CollectionInput) error
	DeleteGroup(ctx context.Context, id int64) error

	// Tags and settings
	ListTags(ctx context.Context) ([]string, error)
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error

	// Bulk operations
	Export(ctx context.Context) (*domain.Snapshot, error)
	Import(ctx context.Context, snap *domain.Snapshot) (*domain.ImportStats, error)

	// Close releases resources
	Close() error
}
