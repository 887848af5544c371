package domain

type Category struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	ParentID *int64     `json:"parentId,omitempty"`
	Children []Category `json:"children,omitempty"`
}

type Product struct {
	ID            int64    `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Price         Yen      `json:"price"`
	DiscountPrice Yen      `json:"discountPrice,omitempty"`
	CategoryID    int64    `json:"categoryId,omitempty"`
	ImageURLs     []string `json:"imageUrls,omitempty"`
	StockQuantity int      `json:"stockQuantity"`
}

type WishlistItem struct {
	ID          int64  `json:"id"`
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName,omitempty"`
}
