// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"strings"
	"time"
)

// User is an account in the marketplace: a consumer, a vendor or an admin.
// It is persisted as one element of the users collection.
type User struct {
	ID             string         `json:"id"`                        // Numeric-suffix identifier, e.g. "12".
	Email          string         `json:"email"`                     // Login identifier, unique case-insensitively.
	PasswordHash   string         `json:"password_hash"`             // bcrypt hash; never leaves the data layer.
	Name           string         `json:"name"`                      // Display name.
	Role           Role           `json:"role"`                      // user, vendor or admin.
	ApprovalStatus ApprovalStatus `json:"approval_status,omitempty"` // Only meaningful for vendors.
	ProfileInfo    ProfileInfo    `json:"profile_info"`              // Role-specific profile data.
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// ProfileInfo holds the editable profile of a user. Vendors use the business
// fields; consumers mostly use address, phone and avatar.
type ProfileInfo struct {
	Address             string            `json:"address,omitempty"`
	Phone               string            `json:"phone,omitempty"`
	Avatar              string            `json:"avatar,omitempty"` // Selected built-in avatar key.
	AvatarBase64        string            `json:"avatar_base64,omitempty"`
	BusinessName        string            `json:"business_name,omitempty"`
	BusinessDescription string            `json:"business_description,omitempty"`
	LogoBase64          string            `json:"logo_base64,omitempty"`
	Extra               map[string]string `json:"extra,omitempty"` // Free-form keys without a dedicated field.
}

// IsVendor reports whether the user sells on the marketplace.
func (u *User) IsVendor() bool {
	return u.Role == RoleVendor
}

// IsDiscoverable reports whether consumers may see this vendor.
// Only approved vendors are discoverable; approval does not gate the
// vendor's own ability to manage products.
func (u *User) IsDiscoverable() bool {
	return u.Role == RoleVendor && u.ApprovalStatus == ApprovalApproved
}

// HasEmail compares emails case-insensitively.
func (u *User) HasEmail(email string) bool {
	return strings.EqualFold(strings.TrimSpace(u.Email), strings.TrimSpace(email))
}

// DisplayName prefers the business name for vendors.
func (u *User) DisplayName() string {
	if u.Role == RoleVendor && u.ProfileInfo.BusinessName != "" {
		return u.ProfileInfo.BusinessName
	}

	return u.Name
}

// PublicUser is the projection of a User handed to callers outside the data layer.
type PublicUser struct {
	ID             string         `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name"`
	Role           Role           `json:"role"`
	ApprovalStatus ApprovalStatus `json:"approval_status,omitempty"`
	ProfileInfo    ProfileInfo    `json:"profile_info"`
}

// Public strips credentials from the user.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:             u.ID,
		Email:          u.Email,
		Name:           u.Name,
		Role:           u.Role,
		ApprovalStatus: u.ApprovalStatus,
		ProfileInfo:    u.ProfileInfo,
	}
}
