package domain

// Buckets are the five derived order views. They are disjoint: every order
// whose status normalizes to one of the five partition statuses lands in
// exactly one bucket; cancelled and unknown statuses are excluded from all.
type Buckets struct {
	Cart      []Order
	Pending   []Order
	Active    []Order
	Finished  []Order
	Delivered []Order
}

func Partition(orders []Order) Buckets {
	var b Buckets
	for _, o := range orders {
		switch o.NormalizedStatus() {
		case StatusCart:
			b.Cart = append(b.Cart, o)
		case StatusPending:
			b.Pending = append(b.Pending, o)
		case StatusActive:
			b.Active = append(b.Active, o)
		case StatusFinished:
			b.Finished = append(b.Finished, o)
		case StatusDelivered:
			b.Delivered = append(b.Delivered, o)
		}
	}
	return b
}

type BucketStats struct {
	Count int
	Total float64
}

func stats(orders []Order) BucketStats {
	s := BucketStats{Count: len(orders)}
	for _, o := range orders {
		s.Total += o.TotalPrice
	}
	return s
}

// Stats returns per-partition counts and summed totals.
func (b Buckets) Stats() map[OrderStatus]BucketStats {
	return map[OrderStatus]BucketStats{
		StatusCart:      stats(b.Cart),
		StatusPending:   stats(b.Pending),
		StatusActive:    stats(b.Active),
		StatusFinished:  stats(b.Finished),
		StatusDelivered: stats(b.Delivered),
	}
}

// CartTotal sums the build-time totals of the cart partition.
func CartTotal(orders []Order) float64 {
	return stats(Partition(orders).Cart).Total
}

// Balance derives the wallet balance as sum(credit) - sum(debit).
func Balance(txs []Transaction) float64 {
	var balance float64
	for _, t := range txs {
		switch t.Type {
		case Credit:
			balance += t.Amount
		case Debit:
			balance -= t.Amount
		}
	}
	return balance
}

// TotalSpend sums the debit side of the ledger.
func TotalSpend(txs []Transaction) float64 {
	var spend float64
	for _, t := range txs {
		if t.Type == Debit {
			spend += t.Amount
		}
	}
	return spend
}
