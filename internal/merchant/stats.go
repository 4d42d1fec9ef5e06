package merchant

import "github.com/Tchindavaldo/yaammoo-core/internal/domain"

type Stats struct {
	TotalOrders     int
	PendingOrders   int
	CompletedOrders int
	Revenue         float64
}

// Stats derives merchant counters from the current order list. An order
// counts as completed once it reaches finished or delivered; revenue is the
// sum of completed order totals.
func (a *Accessor) Stats() Stats {
	var s Stats
	for _, o := range a.Orders() {
		switch o.NormalizedStatus() {
		case domain.StatusUnknown, domain.StatusCart:
			continue
		case domain.StatusPending:
			s.PendingOrders++
		case domain.StatusFinished, domain.StatusDelivered:
			s.CompletedOrders++
			s.Revenue += o.TotalPrice
		}
		s.TotalOrders++
	}
	return s
}
