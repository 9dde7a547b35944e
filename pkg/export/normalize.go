package export

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/zenithweave/NUT-ORDERS-REPORT/pkg/shopify"
)

// timeLayout renders timestamps at minute precision.
const timeLayout = "2006-01-02 15:04"

// reportZone is the single fixed civil-time offset every timestamp is
// rendered in, regardless of the offset the upstream returned.
var reportZone = time.FixedZone("UTC+2", 2*60*60)

// Flatten expands orders into one Row per (order, line item) pair, in
// the order the server returned them. An order with no line items
// contributes no rows.
func Flatten(orders []shopify.Order) []Row {
	var rows []Row
	for _, order := range orders {
		for _, item := range order.LineItems {
			rows = append(rows, NormalizeRow(order, item))
		}
	}
	return rows
}

// NormalizeRow maps one order plus one of its line items to a Row.
// Pure and deterministic: no I/O, no side effects, and it never fails.
// Every field resolves through an explicit default when the source
// data is absent, so malformed or partially-populated orders still
// produce a complete row.
func NormalizeRow(order shopify.Order, item shopify.LineItem) Row {
	billing := addr(order.BillingAddress)
	shipping := addr(order.ShippingAddress)

	return Row{
		OrderID:     strconv.FormatInt(order.ID, 10),
		OrderNumber: orderNumber(order),
		OrderStatus: strings.TrimSpace(order.FinancialStatus),
		OrderDate:   formatTime(order.CreatedAt),
		PaidDate:    formatTime(order.ProcessedAt),

		CustomerNote: strings.TrimSpace(order.Note),

		BillingName:     strings.TrimSpace(billing.Name),
		BillingCompany:  strings.TrimSpace(billing.Company),
		BillingAddress1: strings.TrimSpace(billing.Address1),
		BillingAddress2: strings.TrimSpace(billing.Address2),
		BillingCity:     strings.TrimSpace(billing.City),
		BillingState:    strings.TrimSpace(billing.Province),
		BillingPostcode: stripSpace(billing.Zip),
		BillingCountry:  strings.TrimSpace(billing.Country),
		BillingEmail:    strings.TrimSpace(order.Email),
		BillingPhone:    stripSpace(fallback(billing.Phone, order.Phone)),

		// Shipping fields fall back to their billing counterpart, then
		// to "". Shipping email falls back to the order contact email.
		ShippingName:     strings.TrimSpace(fallback(shipping.Name, billing.Name)),
		ShippingCompany:  strings.TrimSpace(fallback(shipping.Company, billing.Company)),
		ShippingAddress1: strings.TrimSpace(fallback(shipping.Address1, billing.Address1)),
		ShippingAddress2: strings.TrimSpace(fallback(shipping.Address2, billing.Address2)),
		ShippingCity:     strings.TrimSpace(fallback(shipping.City, billing.City)),
		ShippingState:    strings.TrimSpace(fallback(shipping.Province, billing.Province)),
		ShippingPostcode: stripSpace(fallback(shipping.Zip, billing.Zip)),
		ShippingCountry:  strings.TrimSpace(fallback(shipping.Country, billing.Country)),
		ShippingEmail:    strings.TrimSpace(order.Email),
		ShippingPhone:    stripSpace(fallback(shipping.Phone, billing.Phone, order.Phone)),

		PaymentMethodTitle:  paymentMethod(order),
		ShippingMethodTitle: shippingMethod(order),

		Subtotal:      money(order.SubtotalPrice),
		DiscountTotal: money(order.TotalDiscounts),
		ShippingTotal: money(order.ShippingTotal()),
		TaxTotal:      money(order.TotalTax),
		OrderTotal:    money(order.TotalPrice),

		CouponCodes: couponCodes(order.DiscountCodes),

		SKU:          strings.TrimSpace(item.SKU),
		ItemName:     strings.TrimSpace(item.Title),
		Quantity:     quantity(item.Quantity),
		ItemPrice:    money(item.Price),
		ItemDiscount: money(item.TotalDiscount),
	}
}

// addr dereferences an optional address, substituting the zero value.
func addr(a *shopify.Address) shopify.Address {
	if a == nil {
		return shopify.Address{}
	}
	return *a
}

// fallback returns the first value that is non-empty after trimming,
// or "".
func fallback(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// formatTime renders a timestamp in the report zone at minute
// precision. Absent timestamps render as "" rather than a sentinel
// date.
func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.In(reportZone).Format(timeLayout)
}

// money normalizes a monetary decimal string, defaulting to "0" when
// absent. The value itself passes through untouched; amounts are never
// routed through floats.
func money(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "0"
	}
	return s
}

// stripSpace removes ALL embedded whitespace, not just the edges.
// Applied to phone and postcode fields only.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// quantity defaults to 1 when absent or non-positive.
func quantity(n int) string {
	if n <= 0 {
		return "1"
	}
	return strconv.Itoa(n)
}

// orderNumber prefers the human-readable order name over the bare
// sequence number.
func orderNumber(order shopify.Order) string {
	if name := strings.TrimSpace(order.Name); name != "" {
		return name
	}
	if order.OrderNumber > 0 {
		return strconv.Itoa(order.OrderNumber)
	}
	return ""
}

// paymentMethod returns the first gateway name, or "Unknown" when the
// order carries none.
func paymentMethod(order shopify.Order) string {
	for _, gateway := range order.PaymentGatewayNames {
		if g := strings.TrimSpace(gateway); g != "" {
			return g
		}
	}
	return "Unknown"
}

// shippingMethod returns the first shipping line title, or "Standard"
// when no shipping line exists.
func shippingMethod(order shopify.Order) string {
	for _, line := range order.ShippingLines {
		if title := strings.TrimSpace(line.Title); title != "" {
			return title
		}
	}
	return "Standard"
}

// couponCodes joins discount codes into one delimited string, each
// code stripped of embedded whitespace.
func couponCodes(codes []shopify.DiscountCode) string {
	var cleaned []string
	for _, dc := range codes {
		if code := stripSpace(dc.Code); code != "" {
			cleaned = append(cleaned, code)
		}
	}
	return strings.Join(cleaned, ", ")
}
