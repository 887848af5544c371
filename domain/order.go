package domain

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "PENDING"
	OrderStatusPaid      OrderStatus = "PAID"
	OrderStatusShipped   OrderStatus = "SHIPPED"
	OrderStatusDelivered OrderStatus = "DELIVERED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// OrderRequest is the body of POST /api/orders. Billing and shipping both
// point at the selected address.
type OrderRequest struct {
	PaymentMethod     string `json:"paymentMethod"`
	BillingAddressID  int64  `json:"billingAddressId"`
	ShippingAddressID int64  `json:"shippingAddressId"`
	DeliveryDate      string `json:"deliveryDate,omitempty"`
	DeliveryTime      string `json:"deliveryTime,omitempty"`
}

type OrderItem struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       Yen    `json:"price"`
}

type Order struct {
	ID              int64       `json:"id"`
	UserID          int64       `json:"userId"`
	OrderNumber     string      `json:"orderNumber"`
	Status          OrderStatus `json:"status"`
	TotalAmount     Yen         `json:"totalAmount"`
	ShippingAddress *Address    `json:"shippingAddress,omitempty"`
	BillingAddress  *Address    `json:"billingAddress,omitempty"`
	OrderItems      []OrderItem `json:"orderItems,omitempty"`
	CreatedAt       time.Time   `json:"createdAt,omitzero"`
}

// OrderConfirmation is the denormalized summary shown after submission.
type OrderConfirmation struct {
	ID            string        `json:"id"`
	OrderID       int64         `json:"orderId"`
	OrderNumber   string        `json:"orderNumber"`
	Items         []CartItem    `json:"items"`
	Totals        OrderTotals   `json:"totals"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	DeliveryDate  string        `json:"deliveryDate"`
	DeliveryTime  string        `json:"deliveryTime"`
	Address       Address       `json:"address"`
	CustomerName  string        `json:"customerName"`
	Email         string        `json:"email"`
	PlacedAt      time.Time     `json:"placedAt"`
}
