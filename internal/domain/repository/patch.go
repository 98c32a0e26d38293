package repository

import (
	"maps"

	"milkrun/internal/domain/entity"
)

// Patch types describe partial updates. A nil field leaves the stored value
// untouched; nested structures are merged field by field rather than replaced.

// ProfileInfoPatch is a partial update of entity.ProfileInfo.
type ProfileInfoPatch struct {
	Address             *string `json:"address,omitempty"`
	Phone               *string `json:"phone,omitempty"`
	Avatar              *string `json:"avatar,omitempty"`
	AvatarBase64        *string `json:"avatar_base64,omitempty"`
	BusinessName        *string `json:"business_name,omitempty"`
	BusinessDescription *string `json:"business_description,omitempty"`
	LogoBase64          *string `json:"logo_base64,omitempty"`

	// Extra is merged key by key; an empty value removes the key.
	Extra map[string]string `json:"extra,omitempty"`
}

// UserPatch is a partial update of entity.User. Passwords are changed through
// UserRepository.UpdatePassword only.
type UserPatch struct {
	Name           *string                `json:"name,omitempty"`
	Email          *string                `json:"email,omitempty"`
	ApprovalStatus *entity.ApprovalStatus `json:"approval_status,omitempty"`
	ProfileInfo    *ProfileInfoPatch      `json:"profile_info,omitempty"`
}

// ProductPatch is a partial update of entity.Product.
type ProductPatch struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Stock       *int     `json:"stock,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	Image       *string  `json:"image,omitempty"`
	ImageBase64 *string  `json:"image_base64,omitempty"`
}

// OrderPatch is a partial update of entity.Order.
type OrderPatch struct {
	Status          *entity.OrderStatus `json:"status,omitempty"`
	Total           *float64            `json:"total,omitempty"`
	DeliveryAddress *string             `json:"delivery_address,omitempty"`
	DeliveryDate    *string             `json:"delivery_date,omitempty"`
	DeliveryTime    *string             `json:"delivery_time,omitempty"`
	PaymentMethod   *string             `json:"payment_method,omitempty"`
}

// SubscriptionPatch is a partial update of entity.Subscription.
type SubscriptionPatch struct {
	Type          *entity.SubscriptionType   `json:"type,omitempty"`
	Status        *entity.SubscriptionStatus `json:"status,omitempty"`
	Quantity      *int                       `json:"quantity,omitempty"`
	StartDate     *string                    `json:"start_date,omitempty"`
	EndDate       *string                    `json:"end_date,omitempty"`
	PreferredDay  *string                    `json:"preferred_day,omitempty"`
	DeliveryTime  *string                    `json:"delivery_time,omitempty"`
	VacationMode  *bool                      `json:"vacation_mode,omitempty"`
	VacationStart *string                    `json:"vacation_start,omitempty"`
	VacationEnd   *string                    `json:"vacation_end,omitempty"`
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Apply merges the patch into info.
func (p *ProfileInfoPatch) Apply(info *entity.ProfileInfo) {
	if p == nil {
		return
	}
	set(&info.Address, p.Address)
	set(&info.Phone, p.Phone)
	set(&info.Avatar, p.Avatar)
	set(&info.AvatarBase64, p.AvatarBase64)
	set(&info.BusinessName, p.BusinessName)
	set(&info.BusinessDescription, p.BusinessDescription)
	set(&info.LogoBase64, p.LogoBase64)

	if len(p.Extra) == 0 {
		return
	}
	merged := maps.Clone(info.Extra)
	if merged == nil {
		merged = make(map[string]string, len(p.Extra))
	}
	for k, v := range p.Extra {
		if v == "" {
			delete(merged, k)
			continue
		}
		merged[k] = v
	}
	info.Extra = merged
}

// Apply merges the patch into user.
func (p UserPatch) Apply(user *entity.User) {
	set(&user.Name, p.Name)
	set(&user.Email, p.Email)
	set(&user.ApprovalStatus, p.ApprovalStatus)
	p.ProfileInfo.Apply(&user.ProfileInfo)
}

// Apply merges the patch into product.
func (p ProductPatch) Apply(product *entity.Product) {
	set(&product.Name, p.Name)
	set(&product.Description, p.Description)
	set(&product.Price, p.Price)
	set(&product.Category, p.Category)
	set(&product.Stock, p.Stock)
	set(&product.Unit, p.Unit)
	set(&product.Image, p.Image)
	set(&product.ImageBase64, p.ImageBase64)
}

// Apply merges the patch into order.
func (p OrderPatch) Apply(order *entity.Order) {
	set(&order.Status, p.Status)
	set(&order.Total, p.Total)
	set(&order.DeliveryAddress, p.DeliveryAddress)
	set(&order.DeliveryDate, p.DeliveryDate)
	set(&order.DeliveryTime, p.DeliveryTime)
	set(&order.PaymentMethod, p.PaymentMethod)
}

// Apply merges the patch into sub.
func (p SubscriptionPatch) Apply(sub *entity.Subscription) {
	set(&sub.Type, p.Type)
	set(&sub.Status, p.Status)
	set(&sub.Quantity, p.Quantity)
	set(&sub.StartDate, p.StartDate)
	set(&sub.EndDate, p.EndDate)
	set(&sub.PreferredDay, p.PreferredDay)
	set(&sub.DeliveryTime, p.DeliveryTime)
	set(&sub.VacationMode, p.VacationMode)
	set(&sub.VacationStart, p.VacationStart)
	set(&sub.VacationEnd, p.VacationEnd)
}
