package extract

// ReconcileQuantities fills in quantities for items that have none. Items
// keep any quantity recovered beside them on their own row; the remaining
// items consume the separately scanned quantities positionally, in order;
// whatever is still unassigned shares the declared total's shortfall evenly,
// with the first such items absorbing any non-divisible leftover unit. Every
// assigned quantity is clamped to a minimum of 1. With no declared total,
// unassigned items default to 1.
func ReconcileQuantities(items []Item, found []int, declaredTotal int) {
	next := 0
	sum := 0
	var unassigned []int
	for i := range items {
		if items[i].Quantity > 0 {
			sum += items[i].Quantity
			continue
		}
		if next < len(found) {
			q := found[next]
			next++
			if q < 1 {
				q = 1
			}
			items[i].Quantity = q
			sum += q
			continue
		}
		unassigned = append(unassigned, i)
	}
	if len(unassigned) == 0 {
		return
	}

	if declaredTotal <= 0 {
		for _, i := range unassigned {
			items[i].Quantity = 1
		}
		return
	}

	remaining := declaredTotal - sum
	avg := remaining / len(unassigned)
	rem := remaining % len(unassigned)
	if remaining < 0 {
		avg, rem = 0, 0
	}
	for _, i := range unassigned {
		q := avg
		if rem > 0 {
			q++
			rem--
		}
		if q < 1 {
			q = 1
		}
		items[i].Quantity = q
	}
}
