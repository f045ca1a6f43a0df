package receipt

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"PrintApp/app/models"
)

// Compose converts an order and a resolved layout into the ordered line
// sequence that both render backends consume. It performs no I/O and knows
// nothing about engines; everything here is column arithmetic.
func Compose(order *models.Order, p Parameters) []Line {
	c := composer{p: p}

	c.header(order)
	c.fieldRows(order)
	c.itemTable(order)
	c.paymentSummary(order)
	c.notes(order)
	c.footer()

	return c.lines
}

type composer struct {
	p     Parameters
	lines []Line
}

func (c *composer) add(role Role, text string) {
	c.lines = append(c.lines, Line{Role: role, Text: text})
}

func (c *composer) rule() {
	c.add(RoleSeparator, strings.Repeat("-", c.p.TotalColumns))
}

func (c *composer) strongRule() {
	c.add(RoleSeparator, strings.Repeat("=", c.p.TotalColumns))
}

func (c *composer) blank() {
	c.add(RoleBlank, "")
}

func (c *composer) section(caption string) {
	c.strongRule()
	c.add(RoleSection, Pad(caption, c.p.TotalColumns, AlignCenter))
	c.strongRule()
}

func (c *composer) header(order *models.Order) {
	c.add(RoleHeader, "#"+order.OrderID)
	if order.IsDelivery() {
		c.add(RoleField, "DELIVERY")
	} else {
		c.add(RoleField, "PICKUP")
	}
	c.rule()
}

// fieldRow emits a label/value pair, wrapping onto an indented continuation
// when the pair does not fit on one line.
func (c *composer) fieldRow(label, value string) {
	if value == "" {
		value = "N/A"
	}
	const minGap = 1
	if DisplayWidth(label)+DisplayWidth(value)+minGap <= c.p.TotalColumns {
		c.add(RoleField, label+" "+value)
		return
	}
	c.add(RoleField, label)
	for _, part := range Wrap(value, c.p.TotalColumns-2) {
		c.add(RoleField, "  "+part)
	}
}

func (c *composer) fieldRows(order *models.Order) {
	c.fieldRow("Date:", order.CreateTime)
	if order.IsDelivery() {
		c.fieldRow("Delivery Time:", order.DeliveryTime)
	} else {
		c.fieldRow("Pickup Time:", order.DeliveryTime)
	}
	c.fieldRow("Payment:", order.PayMethod)
	c.fieldRow("Customer:", order.RecipientName)
	c.fieldRow("Phone:", order.RecipientPhone)
	if order.IsDelivery() {
		c.fieldRow("Address:", order.RecipientAddress)
	}
}

func (c *composer) itemTable(order *models.Order) {
	c.section("ORDER ITEMS")
	c.add(RoleTableHead,
		Pad("Item", c.p.NameWidth, AlignLeft)+
			Pad("Qty", c.p.QtyWidth, AlignRight)+
			Pad("Price", c.p.PriceWidth, AlignRight))
	c.rule()

	for _, dish := range order.Dishes {
		c.dishRows(dish)
	}
}

// dishRows emits the table row(s) for one dish: the first name segment
// carries quantity and price, wrapped name segments continue under the name
// column with the numeric columns left blank, then description and remark
// each wrap independently inside the name column.
func (c *composer) dishRows(dish models.Dish) {
	nameLines := Wrap(dish.Name, c.p.NameWidth)
	if len(nameLines) == 0 {
		nameLines = []string{""}
	}

	qty := strconv.Itoa(dish.Quantity)
	price := fmt.Sprintf("%.2f", dish.Price.Value())

	c.add(RoleItem,
		Pad(nameLines[0], c.p.NameWidth, AlignLeft)+
			Pad(qty, c.p.QtyWidth, AlignRight)+
			Pad(price, c.p.PriceWidth, AlignRight))
	for _, cont := range nameLines[1:] {
		c.add(RoleItemDetail, Pad(cont, c.p.NameWidth, AlignLeft))
	}

	c.detailBlock("+ ", dish.Description)
	c.detailBlock("Note: ", dish.Remark)
	c.blank()
}

// detailBlock renders optional free text under a dish, prefixed on the first
// line and indented on continuations, wrapped to the name column.
func (c *composer) detailBlock(prefix, text string) {
	if text == "" {
		return
	}
	indent := strings.Repeat(" ", DisplayWidth(prefix))
	width := c.p.NameWidth - DisplayWidth(prefix)
	for i, part := range Wrap(text, width) {
		if i == 0 {
			c.add(RoleItemDetail, prefix+part)
		} else {
			c.add(RoleItemDetail, indent+part)
		}
	}
}

func (c *composer) feeRow(role Role, label string, amount float64) {
	c.add(role,
		Pad(label, c.p.FeeLabelWidth, AlignLeft)+
			Pad(money(amount), c.p.FeeAmountWidth, AlignRight))
}

func (c *composer) paymentSummary(order *models.Order) {
	c.section("PAYMENT SUMMARY")

	c.feeRow(RoleFee, "Subtotal", order.SubTotal.Value())
	if order.DiscountTotal.Positive() {
		c.feeRow(RoleFee, "Discount", -order.DiscountTotal.Value())
	}
	if order.Exemption.Positive() {
		c.feeRow(RoleFee, "Exemption", -order.Exemption.Value())
	}
	if order.TaxFee.Positive() {
		c.feeRow(RoleFee, rateLabel("Tax", order.TaxRate), order.TaxFee.Value())
	}
	if order.DeliveryFee.Positive() {
		c.feeRow(RoleFee, "Delivery Fee", order.DeliveryFee.Value())
	}
	if order.RetailDeliveryFee.Positive() {
		c.feeRow(RoleFee, "Retail Delivery Fee", order.RetailDeliveryFee.Value())
	}
	if order.ConvenienceFee.Positive() {
		c.feeRow(RoleFee, rateLabel("Service Fee", order.ConvenienceRate), order.ConvenienceFee.Value())
	}
	if order.TipFee.Positive() {
		c.feeRow(RoleFee, "Tip", order.TipFee.Value())
	}

	c.rule()
	c.feeRow(RoleTotal, "TOTAL", order.Total.Value())
}

func (c *composer) notes(order *models.Order) {
	if order.OrderNotes == "" {
		return
	}
	c.rule()
	c.add(RoleNote, "Notes:")
	for _, part := range Wrap(order.OrderNotes, c.p.TotalColumns-2) {
		c.add(RoleNote, "  "+part)
	}
}

func (c *composer) footer() {
	c.rule()
	c.blank()
	c.blank()
}

// money formats an amount as $X.XX, with the sign ahead of the dollar sign.
func money(v float64) string {
	if v < 0 {
		return fmt.Sprintf("-$%.2f", -v)
	}
	return fmt.Sprintf("$%.2f", v)
}

// rateLabel appends a percentage to a fee label when the rate is positive,
// e.g. "Tax (8.3%)" for a 0.0825 rate. Rounds half up to one decimal.
func rateLabel(label string, rate models.Amount) string {
	r := rate.Value()
	if r <= 0 {
		return label
	}
	pct := math.Floor(r*1000+0.5) / 10
	return fmt.Sprintf("%s (%.1f%%)", label, pct)
}
