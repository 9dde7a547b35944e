package shopify

import "time"

// Order is a single order as returned by the Admin REST orders resource.
// Optional nested blocks (addresses, timestamps) are pointers so that an
// absent field is distinguishable from an empty one; the export layer
// owns all default resolution.
type Order struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	OrderNumber     int        `json:"order_number"`
	CreatedAt       *time.Time `json:"created_at"`
	ProcessedAt     *time.Time `json:"processed_at"`
	Note            string     `json:"note"`
	Email           string     `json:"email"`
	Phone           string     `json:"phone"`
	FinancialStatus string     `json:"financial_status"`

	// Monetary totals stay decimal strings end to end. Never parse
	// these into floats; the export contract forbids rounding drift.
	SubtotalPrice         string    `json:"subtotal_price"`
	TotalDiscounts        string    `json:"total_discounts"`
	TotalShippingPriceSet *PriceSet `json:"total_shipping_price_set"`
	TotalTax              string    `json:"total_tax"`
	TotalPrice            string    `json:"total_price"`

	PaymentGatewayNames []string       `json:"payment_gateway_names"`
	DiscountCodes       []DiscountCode `json:"discount_codes"`
	ShippingLines       []ShippingLine `json:"shipping_lines"`

	BillingAddress  *Address `json:"billing_address"`
	ShippingAddress *Address `json:"shipping_address"`

	LineItems []LineItem `json:"line_items"`
}

// ShippingTotal returns the shop-currency shipping total as a decimal
// string, or "" when the price set is absent.
func (o Order) ShippingTotal() string {
	if o.TotalShippingPriceSet == nil {
		return ""
	}
	return o.TotalShippingPriceSet.ShopMoney.Amount
}

// Address is a billing or shipping address block.
type Address struct {
	Name     string `json:"name"`
	Company  string `json:"company"`
	Address1 string `json:"address1"`
	Address2 string `json:"address2"`
	City     string `json:"city"`
	Province string `json:"province"`
	Zip      string `json:"zip"`
	Country  string `json:"country"`
	Phone    string `json:"phone"`
}

// LineItem is a single purchasable line within an order.
type LineItem struct {
	SKU           string `json:"sku"`
	Title         string `json:"title"`
	Quantity      int    `json:"quantity"`
	Price         string `json:"price"`
	TotalDiscount string `json:"total_discount"`
}

// DiscountCode is an applied discount code.
type DiscountCode struct {
	Code   string `json:"code"`
	Amount string `json:"amount"`
	Type   string `json:"type"`
}

// ShippingLine is a shipping method applied to an order.
type ShippingLine struct {
	Title string `json:"title"`
	Price string `json:"price"`
}

// PriceSet is a money amount in shop currency.
type PriceSet struct {
	ShopMoney Money `json:"shop_money"`
}

// Money is a currency amount kept as a decimal string.
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currency_code"`
}

// ordersEnvelope is the top-level orders.json response shape.
type ordersEnvelope struct {
	Orders []Order `json:"orders"`
}
