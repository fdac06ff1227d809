package domain

// Aggregation is the persistable result of pricing an order request against
// the catalog: order-level totals plus normalized line items carrying the
// unit-price snapshot.
type Aggregation struct {
	TotalAmount float64
	TotalItems  int
	Items       []OrderItem
}

// Aggregate computes order totals from the requested items and the products
// the catalog resolved for them. It is a pure function: no side effects,
// deterministic for identical inputs, and it preserves the input item order.
//
// Any item whose productId is absent from the resolved set fails the whole
// aggregation — partial orders are never produced.
func Aggregate(items []RequestedItem, products []Product) (Aggregation, error) {
	if len(items) == 0 {
		return Aggregation{}, Validationf("order must contain at least one item")
	}

	byID := make(map[string]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	agg := Aggregation{Items: make([]OrderItem, 0, len(items))}
	for _, item := range items {
		if item.Quantity <= 0 {
			return Aggregation{}, Validationf("quantity for product %s must be positive", item.ProductID)
		}
		product, ok := byID[item.ProductID]
		if !ok {
			return Aggregation{}, Validationf("product %s not found in catalog", item.ProductID)
		}
		agg.Items = append(agg.Items, OrderItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
		agg.TotalAmount += product.Price * float64(item.Quantity)
		agg.TotalItems += item.Quantity
	}
	return agg, nil
}

// DistinctProductIDs returns the set of product ids referenced by the
// requested items, first occurrence order preserved. The catalog is asked
// once per request with this set, not once per item.
func DistinctProductIDs(items []RequestedItem) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.ProductID]; ok {
			continue
		}
		seen[item.ProductID] = struct{}{}
		ids = append(ids, item.ProductID)
	}
	return ids
}

// EnrichNames attaches the current catalog name to each item in place.
// Items whose product has since vanished from the catalog keep an empty
// name; catalog drift after creation is tolerated.
func EnrichNames(items []OrderItem, products []Product) {
	byID := make(map[string]string, len(products))
	for _, p := range products {
		byID[p.ID] = p.Name
	}
	for i := range items {
		items[i].Name = byID[items[i].ProductID]
	}
}
