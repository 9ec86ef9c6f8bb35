package transport

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type CreateProductRequest struct {
	Name        string   `json:"name"`
	Price       *float64 `json:"price"`
	Description string   `json:"description"`
	Quantity    *int     `json:"quantity"`
}

// UpdateProductRequest carries only the fields the client sent.
type UpdateProductRequest struct {
	Name        *string  `json:"name"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
	Quantity    *int     `json:"quantity"`
}

func (r UpdateProductRequest) Empty() bool {
	return r.Name == nil && r.Price == nil && r.Description == nil && r.Quantity == nil
}

type ProductSummary struct {
	ID    uint    `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

type CartEntry struct {
	ID        uint    `json:"id"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
}

type CheckoutResult struct {
	Items int     `json:"items"`
	Total float64 `json:"total"`
}

type PageMeta struct {
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
}

// NewPageMeta describes the window [offset, offset+limit) of total rows. The
// page number is derived from the window so it matches the returned data.
func NewPageMeta(offset, limit int, total int64) PageMeta {
	page := offset/limit + 1
	return PageMeta{
		Page:       page,
		Size:       limit,
		Total:      total,
		TotalPages: (total + int64(limit) - 1) / int64(limit),
		HasPrev:    page > 1,
		HasNext:    int64(offset)+int64(limit) < total,
	}
}
