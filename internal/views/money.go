package views

import "github.com/shopspring/decimal"

var (
	taxRate     = decimal.RequireFromString("0.10")
	totalRate   = decimal.RequireFromString("1.10")
	shippingFee = decimal.Zero
)

// FormatMoney affiche un montant à exactement deux décimales. Les calculs
// se font en précision complète avant cet arrondi.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// OrderSummary est le récapitulatif de commande de la page panier.
type OrderSummary struct {
	Lines    []SummaryLine
	Subtotal decimal.Decimal
	Shipping decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

type SummaryLine struct {
	Name     string
	Quantity int
	Total    decimal.Decimal
}

// Summarize calcule le récapitulatif : livraison offerte, taxe à 10 % du
// sous-total, total à 110 % du sous-total.
func Summarize(lines []SummaryLine) OrderSummary {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.Total)
	}
	return OrderSummary{
		Lines:    lines,
		Subtotal: subtotal,
		Shipping: shippingFee,
		Tax:      subtotal.Mul(taxRate),
		Total:    subtotal.Mul(totalRate),
	}
}

func (s OrderSummary) ShippingLabel() string {
	if s.Shipping.IsZero() {
		return "Free"
	}
	return FormatMoney(s.Shipping)
}
