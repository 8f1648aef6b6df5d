package calendar

import (
	"github.com/shopspring/decimal"

	"puremilk/internal/domain"
)

// BucketTotals aggregates one bucket of a monthly summary. Liters are rounded
// to one decimal place, amounts to two.
type BucketTotals struct {
	Liters float64 `json:"liters"`
	Amount float64 `json:"amount"`
	Slots  int     `json:"slots"`
}

// Summary partitions a month into the delivered and planned buckets plus
// their combined totals. Amounts are priced at the customer's current rate,
// not whatever rate was in effect when a delivery was recorded.
type Summary struct {
	Delivered BucketTotals `json:"delivered"`
	Planned   BucketTotals `json:"planned"`
	Combined  BucketTotals `json:"combined"`
}

// Summarize computes the monthly totals for a derived view at the given
// rate per liter.
func Summarize(view View, ratePerLiter float64) Summary {
	rate := decimal.NewFromFloat(ratePerLiter)
	var delivered, planned bucketAcc

	for _, e := range view.Entries {
		switch {
		case e.IsDefault:
			planned.add(e.Quantity)
		case e.Status == domain.DeliveryDelivered:
			delivered.add(e.Quantity)
		}
	}

	d := delivered.totals(rate)
	p := planned.totals(rate)
	// Combined totals are sums of the rounded bucket totals, not a third
	// rounding pass over the raw liters.
	combined := BucketTotals{
		Liters: sum2(d.Liters, p.Liters),
		Amount: sum2(d.Amount, p.Amount),
		Slots:  d.Slots + p.Slots,
	}
	return Summary{Delivered: d, Planned: p, Combined: combined}
}

type bucketAcc struct {
	liters decimal.Decimal
	slots  int
}

func (b *bucketAcc) add(quantity float64) {
	b.liters = b.liters.Add(decimal.NewFromFloat(quantity))
	b.slots++
}

func sum2(a, b float64) float64 {
	out, _ := decimal.NewFromFloat(a).Add(decimal.NewFromFloat(b)).Float64()
	return out
}

func (b bucketAcc) totals(rate decimal.Decimal) BucketTotals {
	liters, _ := b.liters.Round(1).Float64()
	amount, _ := b.liters.Mul(rate).Round(2).Float64()
	return BucketTotals{Liters: liters, Amount: amount, Slots: b.slots}
}

// PendingAmount sums the outstanding payment amounts of the month. This is an
// aggregation over payments only and is unrelated to the delivery buckets.
func PendingAmount(payments []domain.Payment, month Month) float64 {
	total := decimal.Zero
	for _, p := range payments {
		if !month.Contains(p.PaymentDate) || !p.Status.Outstanding() {
			continue
		}
		total = total.Add(decimal.NewFromFloat(p.Amount))
	}
	out, _ := total.Round(2).Float64()
	return out
}
