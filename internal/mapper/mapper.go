// Package mapper converts between request payloads, domain entities and response payloads.
// Every function here is pure.
package mapper

import "shop-admin/internal/domain"

// ToPage maps every item of a page, keeping its position
func ToPage[A, B any](page domain.Page[A], fn func(A) B) domain.Page[B] {
	items := make([]B, len(page.Items))
	for i, item := range page.Items {
		items[i] = fn(item)
	}
	return domain.Page[B]{
		Items:      items,
		Page:       page.Page,
		Size:       page.Size,
		TotalItems: page.TotalItems,
		TotalPages: page.TotalPages,
	}
}

func mapAll[A, B any](items []A, fn func(A) B) []B {
	out := make([]B, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}
