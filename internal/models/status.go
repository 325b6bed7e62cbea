package models

// DeriveProductStatus computes the effective lifecycle status of a product
// from its stored status and its current variant set. It is a display-time
// projection: it is recomputed whenever the variant collection changes and is
// never written back to the backend.
//
// Rules:
//   - discontinued is terminal and never auto-reverted;
//   - any non-discontinued variant makes the product active;
//   - with zero non-discontinued variants, pending stays pending ("never had
//     variants") while every other status collapses to inactive ("had
//     variants once, has none now").
func DeriveProductStatus(current ProductStatus, variants []Variant) ProductStatus {
	if current == ProductDiscontinued {
		return ProductDiscontinued
	}

	live := 0
	for _, v := range variants {
		if v.Status != VariantDiscontinued {
			live++
		}
	}
	if live > 0 {
		return ProductActive
	}

	if current == ProductPending {
		return ProductPending
	}
	return ProductInactive
}
