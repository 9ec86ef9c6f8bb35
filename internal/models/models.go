package models

type Product struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string  `gorm:"size:100;not null"         json:"name"`
	Price       float64 `gorm:"not null"                  json:"price"`
	Description string  `gorm:"type:text;not null;default:''" json:"description"`
	Quantity    int     `gorm:"not null;default:0"        json:"quantity"`
}

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null;default:user"    json:"role"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"       json:"id"`
	UserID    uint   `gorm:"index;not null"   json:"user_id"`
	JTI       string `gorm:"uniqueIndex;not null" json:"jti"`
	Token     string `gorm:"uniqueIndex;not null" json:"-"`
	ExpiresAt int64  `gorm:"not null"         json:"expires_at"`
	Revoked   bool   `gorm:"default:false"    json:"revoked"`
}

// CartItem is one unit of a product in a user's cart. The same product may
// appear in several rows.
type CartItem struct {
	ID        uint `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint `gorm:"index;not null"           json:"user_id"`
	ProductID uint `gorm:"index;not null"           json:"product_id"`
}

func All() []any {
	return []any{&Product{}, &User{}, &RefreshToken{}, &CartItem{}}
}
