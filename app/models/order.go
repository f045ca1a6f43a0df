package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// DeliveryStyle distinguishes pickup orders from delivery orders.
type DeliveryStyle string

const (
	StylePickup   DeliveryStyle = "pickup"
	StyleDelivery DeliveryStyle = "delivery"
)

// Amount is a decimal money or rate value as it arrives on the wire. Feeds
// send these inconsistently as strings or bare numbers, occasionally as
// garbage; Amount keeps the raw text and parses defensively on access.
type Amount string

// UnmarshalJSON accepts both "12.50" and 12.5 forms.
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*a = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*a = Amount(strings.TrimSpace(s))
		return nil
	}
	*a = Amount(string(data))
	return nil
}

// Value returns the parsed amount, or 0 when the field is absent or
// unparsable. Malformed money never fails a print job.
func (a Amount) Value() float64 {
	s := strings.TrimSpace(string(a))
	if s == "" {
		return 0
	}
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimPrefix(s, "$")
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Positive reports whether the amount parses to a value greater than zero.
func (a Amount) Positive() bool {
	return a.Value() > 0
}

// Dish is a single order line item.
type Dish struct {
	Name        string `json:"dishes_name"`
	Quantity    int    `json:"amount"`
	UnitPrice   Amount `json:"unit_price"`
	Price       Amount `json:"price"`
	Remark      string `json:"remark,omitempty"`
	Description string `json:"dishes_describe,omitempty"`
}

// Order is the unit of print work. It arrives fully populated from the order
// feed; this client never fetches orders itself. Timestamps are treated as
// opaque display strings since the source timezone is not guaranteed.
type Order struct {
	OrderID       string        `json:"order_id"`
	DeliveryStyle DeliveryStyle `json:"delivery_style"`
	CreateTime    string        `json:"create_time"`
	DeliveryTime  string        `json:"delivery_time"`

	RestaurantName   string `json:"rd_name"`
	RecipientName    string `json:"recipient_name"`
	RecipientPhone   string `json:"recipient_phone"`
	RecipientAddress string `json:"recipient_address"`
	PayMethod        string `json:"pay_method"`

	SubTotal          Amount `json:"sub_total"`
	DiscountTotal     Amount `json:"discount_total"`
	Exemption         Amount `json:"exemption"`
	TaxFee            Amount `json:"tax_fee"`
	TaxRate           Amount `json:"tax_rate"`
	DeliveryFee       Amount `json:"delivery_fee"`
	RetailDeliveryFee Amount `json:"retail_delivery_fee"`
	ConvenienceFee    Amount `json:"convenience_fee"`
	ConvenienceRate   Amount `json:"convenience_rate"`
	TipFee            Amount `json:"tip_fee"`
	Total             Amount `json:"total"`

	Dishes     []Dish `json:"dishes_array"`
	OrderNotes string `json:"order_notes,omitempty"`
}

// IsDelivery reports whether the order should render delivery fields.
func (o *Order) IsDelivery() bool {
	return o.DeliveryStyle == StyleDelivery
}

// TestOrder builds the synthetic single-dish order used by test prints.
func TestOrder() *Order {
	return &Order{
		OrderID:       "00000000000000000",
		DeliveryStyle: StylePickup,
		RecipientName: "Test Print",
		PayMethod:     "N/A",
		SubTotal:      "0.00",
		Total:         "0.00",
		Dishes: []Dish{
			{Name: "Test Dish", Quantity: 1, UnitPrice: "0.00", Price: "0.00"},
		},
	}
}
