package models

import "time"

// User is a profile keyed by the identity provider's user id
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;type:varchar(128)"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	EmailAddress string    `json:"email_address" gorm:"index"`
	ImageURL     string    `json:"image_url"`
	Username     string    `json:"username" gorm:"index"` // unique by convention only
	BannerURL    *string   `json:"banner_url"`
	BannerID     *string   `json:"banner_id"`
	Bio          *string   `json:"bio"`
	IsInfluencer bool      `json:"isInfluencer" gorm:"default:false;index"`
	Tags         []string  `json:"tags" gorm:"type:text;serializer:json"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}

// UserProfile is the projection returned by getUser. It includes the banner id
// because the profile edit flow sends it back as prevBannerId.
type UserProfile struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	EmailAddress string   `json:"email_address"`
	ImageURL     string   `json:"image_url"`
	Username     string   `json:"username"`
	BannerURL    *string  `json:"banner_url"`
	BannerID     *string  `json:"banner_id"`
	Bio          *string  `json:"bio"`
	IsInfluencer bool     `json:"isInfluencer"`
	Tags         []string `json:"tags"`
}

// UserSummary is the projection used in lists and search results; it never
// carries media identifiers
type UserSummary struct {
	ID           string   `json:"id"`
	FirstName    string   `json:"first_name"`
	LastName     string   `json:"last_name"`
	EmailAddress string   `json:"email_address"`
	ImageURL     string   `json:"image_url"`
	Username     string   `json:"username"`
	Bio          *string  `json:"bio"`
	IsInfluencer bool     `json:"isInfluencer"`
	Tags         []string `json:"tags"`
}

// ProfileColumns and SummaryColumns are the column allow-lists behind the projections
var (
	ProfileColumns = []string{"id", "first_name", "last_name", "email_address", "image_url", "username",
		"banner_url", "banner_id", "bio", "is_influencer", "tags"}
	SummaryColumns = []string{"id", "first_name", "last_name", "email_address", "image_url", "username",
		"bio", "is_influencer", "tags"}
)

func (u *User) ToProfile() UserProfile {
	return UserProfile{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
		ImageURL:     u.ImageURL,
		Username:     u.Username,
		BannerURL:    u.BannerURL,
		BannerID:     u.BannerID,
		Bio:          u.Bio,
		IsInfluencer: u.IsInfluencer,
		Tags:         nonNilTags(u.Tags),
	}
}

func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:           u.ID,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		EmailAddress: u.EmailAddress,
		ImageURL:     u.ImageURL,
		Username:     u.Username,
		Bio:          u.Bio,
		IsInfluencer: u.IsInfluencer,
		Tags:         nonNilTags(u.Tags),
	}
}

func nonNilTags(tags []string) []string {
	if tags == nil {
		return []string{}
	}
	return tags
}

// CreateUserRequest carries the identity fields delivered by the identity provider
type CreateUserRequest struct {
	ID           string `json:"id" validate:"required,max=128"`
	FirstName    string `json:"first_name" validate:"max=100"`
	LastName     string `json:"last_name" validate:"max=100"`
	EmailAddress string `json:"email_address" validate:"required,email"`
	ImageURL     string `json:"image_url" validate:"omitempty,url"`
	Username     string `json:"username" validate:"max=64"`
}

// ToUser builds the record inserted by createUser
func (r *CreateUserRequest) ToUser() *User {
	return &User{
		ID:           r.ID,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		EmailAddress: r.EmailAddress,
		ImageURL:     r.ImageURL,
		Username:     r.Username,
	}
}

// UpdateUserRequest is a partial update; nil fields are left untouched
type UpdateUserRequest struct {
	ID           string  `json:"id" validate:"required,max=128"`
	FirstName    *string `json:"first_name,omitempty" validate:"omitempty,max=100"`
	LastName     *string `json:"last_name,omitempty" validate:"omitempty,max=100"`
	EmailAddress *string `json:"email_address,omitempty" validate:"omitempty,email"`
	ImageURL     *string `json:"image_url,omitempty" validate:"omitempty,url"`
	Username     *string `json:"username,omitempty" validate:"omitempty,max=64"`
}

// Changes returns the column updates carried by the request
func (r *UpdateUserRequest) Changes() map[string]interface{} {
	changes := make(map[string]interface{})
	if r.FirstName != nil {
		changes["first_name"] = *r.FirstName
	}
	if r.LastName != nil {
		changes["last_name"] = *r.LastName
	}
	if r.EmailAddress != nil {
		changes["email_address"] = *r.EmailAddress
	}
	if r.ImageURL != nil {
		changes["image_url"] = *r.ImageURL
	}
	if r.Username != nil {
		changes["username"] = *r.Username
	}
	return changes
}

// UpdateBioRequest defines the request body for updating a bio
type UpdateBioRequest struct {
	Bio string `json:"bio" validate:"max=500"`
}

// UpdateInfluencerRequest defines the request body for toggling the profile type
type UpdateInfluencerRequest struct {
	IsInfluencer *bool `json:"isInfluencer" validate:"required"`
}

// UpdateBannerRequest carries a base64 encoded image, optionally as a data URL
type UpdateBannerRequest struct {
	Banner       string `json:"banner" validate:"required"`
	PrevBannerID string `json:"prevBannerId"`
}
