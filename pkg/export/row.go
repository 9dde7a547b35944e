// Package export flattens orders into line-item-level report rows and
// serializes them as CSV for spreadsheet consumers.
package export

// Columns is the fixed export header. Column order is a contract:
// downstream spreadsheet consumers address columns by position, so new
// fields go at the end and nothing moves.
var Columns = []string{
	"Order ID",
	"Order Number",
	"Order Status",
	"Order Date",
	"Paid Date",
	"Customer Note",
	"Billing Name",
	"Billing Company",
	"Billing Address 1",
	"Billing Address 2",
	"Billing City",
	"Billing State",
	"Billing Postcode",
	"Billing Country",
	"Billing Email",
	"Billing Phone",
	"Shipping Name",
	"Shipping Company",
	"Shipping Address 1",
	"Shipping Address 2",
	"Shipping City",
	"Shipping State",
	"Shipping Postcode",
	"Shipping Country",
	"Shipping Email",
	"Shipping Phone",
	"Payment Method Title",
	"Shipping Method Title",
	"Subtotal",
	"Discount Total",
	"Shipping Total",
	"Tax Total",
	"Order Total",
	"Coupon Codes",
	"SKU",
	"Item Name",
	"Quantity",
	"Item Price",
	"Item Discount",
}

// Row is a single denormalized export record for one (order, line
// item) pair. Every field is always populated; the normalizer resolves
// absent source data through explicit defaults, never nulls.
type Row struct {
	OrderID     string
	OrderNumber string
	OrderStatus string
	OrderDate   string
	PaidDate    string

	CustomerNote string

	BillingName     string
	BillingCompany  string
	BillingAddress1 string
	BillingAddress2 string
	BillingCity     string
	BillingState    string
	BillingPostcode string
	BillingCountry  string
	BillingEmail    string
	BillingPhone    string

	ShippingName     string
	ShippingCompany  string
	ShippingAddress1 string
	ShippingAddress2 string
	ShippingCity     string
	ShippingState    string
	ShippingPostcode string
	ShippingCountry  string
	ShippingEmail    string
	ShippingPhone    string

	PaymentMethodTitle  string
	ShippingMethodTitle string

	Subtotal      string
	DiscountTotal string
	ShippingTotal string
	TaxTotal      string
	OrderTotal    string

	CouponCodes string

	SKU          string
	ItemName     string
	Quantity     string
	ItemPrice    string
	ItemDiscount string
}

// Values returns the row's fields in Columns order.
func (r Row) Values() []string {
	return []string{
		r.OrderID,
		r.OrderNumber,
		r.OrderStatus,
		r.OrderDate,
		r.PaidDate,
		r.CustomerNote,
		r.BillingName,
		r.BillingCompany,
		r.BillingAddress1,
		r.BillingAddress2,
		r.BillingCity,
		r.BillingState,
		r.BillingPostcode,
		r.BillingCountry,
		r.BillingEmail,
		r.BillingPhone,
		r.ShippingName,
		r.ShippingCompany,
		r.ShippingAddress1,
		r.ShippingAddress2,
		r.ShippingCity,
		r.ShippingState,
		r.ShippingPostcode,
		r.ShippingCountry,
		r.ShippingEmail,
		r.ShippingPhone,
		r.PaymentMethodTitle,
		r.ShippingMethodTitle,
		r.Subtotal,
		r.DiscountTotal,
		r.ShippingTotal,
		r.TaxTotal,
		r.OrderTotal,
		r.CouponCodes,
		r.SKU,
		r.ItemName,
		r.Quantity,
		r.ItemPrice,
		r.ItemDiscount,
	}
}

// rowFromRecord rebuilds a Row from a CSV record in Columns order.
func rowFromRecord(record []string) Row {
	return Row{
		OrderID:             record[0],
		OrderNumber:         record[1],
		OrderStatus:         record[2],
		OrderDate:           record[3],
		PaidDate:            record[4],
		CustomerNote:        record[5],
		BillingName:         record[6],
		BillingCompany:      record[7],
		BillingAddress1:     record[8],
		BillingAddress2:     record[9],
		BillingCity:         record[10],
		BillingState:        record[11],
		BillingPostcode:     record[12],
		BillingCountry:      record[13],
		BillingEmail:        record[14],
		BillingPhone:        record[15],
		ShippingName:        record[16],
		ShippingCompany:     record[17],
		ShippingAddress1:    record[18],
		ShippingAddress2:    record[19],
		ShippingCity:        record[20],
		ShippingState:       record[21],
		ShippingPostcode:    record[22],
		ShippingCountry:     record[23],
		ShippingEmail:       record[24],
		ShippingPhone:       record[25],
		PaymentMethodTitle:  record[26],
		ShippingMethodTitle: record[27],
		Subtotal:            record[28],
		DiscountTotal:       record[29],
		ShippingTotal:       record[30],
		TaxTotal:            record[31],
		OrderTotal:          record[32],
		CouponCodes:         record[33],
		SKU:                 record[34],
		ItemName:            record[35],
		Quantity:            record[36],
		ItemPrice:           record[37],
		ItemDiscount:        record[38],
	}
}
