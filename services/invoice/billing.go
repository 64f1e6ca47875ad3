package invoice

import (
	"gclient/models"

	"github.com/shopspring/decimal"
)

// halfPrice is ceil(price/2), the first instalment of a half plan.
func halfPrice(price float64) float64 {
	return decimal.NewFromFloat(price).Div(decimal.NewFromInt(2)).Ceil().InexactFloat64()
}

// outstandingFor is max(price - paid, 0).
func outstandingFor(price, paid float64) float64 {
	out := decimal.NewFromFloat(price).Sub(decimal.NewFromFloat(paid))
	if out.IsNegative() {
		return 0
	}
	return out.InexactFloat64()
}

// billAmount decides what to charge now and how to tag the invoice.
//
// The first billing for a track honours the requested plan, clamped to what is owed.
// Every later billing charges exactly the remainder and is tagged half.
func billAmount(price, alreadyPaid float64, requested models.PaymentType) (float64, models.PaymentType, error) {
	outstanding := outstandingFor(price, alreadyPaid)

	if alreadyPaid > 0 {
		return outstanding, models.PaymentTypeHalf, nil
	}

	var amount float64
	switch requested {
	case models.PaymentTypeFull:
		amount = price
	case models.PaymentTypeHalf:
		amount = halfPrice(price)
	default:
		return 0, "", newError(KindValidation, "paymentType must be either half or full", nil)
	}
	if amount > outstanding {
		amount = outstanding
	}
	return amount, requested, nil
}

// creditFor is what a successful charge adds to the invoice. A verified full plan settles
// the invoice; webhooks always credit what the gateway reports.
func creditFor(inv *models.Invoice, source string, gatewayAmount float64) float64 {
	if source == "verify" && inv.PaymentType == models.PaymentTypeFull {
		return inv.Amount
	}
	return gatewayAmount
}
