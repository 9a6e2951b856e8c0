package domain

import "context"

// Community is a scene or diaspora community events can be tagged with.
// swagger:model Community
type Community struct {
	ID           int64   `json:"id" db:"id"`
	Name         string  `json:"name" db:"name"`
	Slug         string  `json:"slug" db:"slug"`
	FlagIcon     *string `json:"flag_icon" db:"flag_icon"`
	PreviewImage *string `json:"preview_image" db:"preview_image"`
	IsActive     bool    `json:"is_active" db:"is_active"`
}

// Category is a genre or type of event.
// swagger:model Category
type Category struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

// Artist is a performer linked to events.
// swagger:model Artist
type Artist struct {
	ID          int64   `json:"id" db:"id"`
	Name        string  `json:"name" db:"name"`
	SpotifyID   *string `json:"spotify_id" db:"spotify_id"`
	ImagePath   *string `json:"image_path" db:"image_path"`
	Description *string `json:"description,omitempty" db:"description"`
}

// CommunityInput is the create and update payload for communities.
// swagger:model CommunityInput
type CommunityInput struct {
	Name         string  `json:"name" validate:"required,max=100"`
	Slug         string  `json:"slug" validate:"omitempty,max=100"`
	FlagIcon     *string `json:"flag_icon" validate:"omitempty,max=255"`
	PreviewImage *string `json:"preview_image" validate:"omitempty,max=255"`
	IsActive     *bool   `json:"is_active"`
}

// CategoryInput is the create and update payload for categories.
// swagger:model CategoryInput
type CategoryInput struct {
	Name string `json:"name" validate:"required,max=100"`
	Slug string `json:"slug" validate:"omitempty,max=100"`
}

// ArtistInput is the create payload for artists.
// swagger:model ArtistInput
type ArtistInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	SpotifyID   *string `json:"spotify_id" validate:"omitempty,max=100"`
	ImagePath   *string `json:"image_path" validate:"omitempty,max=500"`
	Description *string `json:"description"`
}

// CommunityRepository stores communities.
type CommunityRepository interface {
	List(ctx context.Context) ([]Community, error)
	GetByID(ctx context.Context, id int64) (*Community, error)
	Create(ctx context.Context, c *Community) error
	Update(ctx context.Context, c *Community) error
	Delete(ctx context.Context, id int64) error
}

// CategoryRepository stores categories.
type CategoryRepository interface {
	List(ctx context.Context) ([]Category, error)
	GetByID(ctx context.Context, id int64) (*Category, error)
	Create(ctx context.Context, c *Category) error
	Update(ctx context.Context, c *Category) error
	Delete(ctx context.Context, id int64) error
}

// ArtistRepository stores artists.
type ArtistRepository interface {
	List(ctx context.Context) ([]Artist, error)
	GetByID(ctx context.Context, id int64) (*Artist, error)
	Create(ctx context.Context, a *Artist) error
}

// LookupService manages the lookup tables events link to.
type LookupService interface {
	ListCommunities(ctx context.Context) ([]Community, error)
	GetCommunity(ctx context.Context, id int64) (*Community, error)
	CreateCommunity(ctx context.Context, in CommunityInput) (*Community, error)
	UpdateCommunity(ctx context.Context, id int64, in CommunityInput) (*Community, error)
	DeleteCommunity(ctx context.Context, id int64) error

	ListCategories(ctx context.Context) ([]Category, error)
	GetCategory(ctx context.Context, id int64) (*Category, error)
	CreateCategory(ctx context.Context, in CategoryInput) (*Category, error)
	UpdateCategory(ctx context.Context, id int64, in CategoryInput) (*Category, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListArtists(ctx context.Context) ([]Artist, error)
	GetArtist(ctx context.Context, id int64) (*Artist, error)
	CreateArtist(ctx context.Context, in ArtistInput) (*Artist, error)
}
