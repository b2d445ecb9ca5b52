package dto

import "github.com/shopspring/decimal"

// CRMSalePayload is the sale document forwarded to the external sales system.
// Validated before forwarding: line-item totals must equal payment-method
// totals, CUIT documents require an email, DNI documents must be numeric.
type CRMSalePayload struct {
	OrderID        string           `json:"order_id"`
	CustomerName   string           `json:"customer_name"`
	CustomerEmail  string           `json:"customer_email,omitempty"`
	DocTypeCode    string           `json:"doc_type"` // "DNI" | "CUIT"
	DocumentNumber string           `json:"document_number"`
	Items          []CRMSaleItem    `json:"items"`
	Payments       []CRMSalePayment `json:"payments"`
}

type CRMSaleItem struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
}

type CRMSalePayment struct {
	Method string          `json:"method"`
	Total  decimal.Decimal `json:"total"`
}
