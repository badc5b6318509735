// Package cascade classifies weight-based items into parent/child roles and
// propagates a parent's MRP/cost/stock changes to its derived child units.
package cascade

import (
	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/domain/catalog/item"
)

// Role is an item's position in the cascade relationship.
type Role int

const (
	// RoleStandalone items (wrap=10000, or weight-based without a usable
	// WDF) take no part in any cascade.
	RoleStandalone Role = iota

	// RoleParent is the canonical per-KG unit: wrap=9900 with WDF exactly 1.
	RoleParent

	// RoleChild is a derived package unit: wrap=9900 with WDF above 1.
	RoleChild
)

func (r Role) String() string {
	switch r {
	case RoleParent:
		return "parent"
	case RoleChild:
		return "child"
	default:
		return "standalone"
	}
}

var one = decimal.NewFromInt(1)

// Classify derives the cascade role from the WDF numeric invariant alone.
// SKU is free-form external data and must never influence the role.
func Classify(it item.Item) Role {
	if it.Wrap != item.WrapWeighed {
		return RoleStandalone
	}
	wdf, ok := it.WDF()
	if !ok {
		return RoleStandalone
	}
	switch {
	case wdf.Equal(one):
		return RoleParent
	case wdf.GreaterThan(one):
		return RoleChild
	default:
		return RoleStandalone
	}
}

type codeKey struct {
	itemCode string
	channel  item.Channel
}

// Index resolves cascade relations for one batch. Built once over the
// batch's items instead of per-row scans; every lookup returns the full
// list of matches, never a single overwritten entry.
type Index struct {
	byCode map[codeKey][]item.Item
	byKey  map[item.Key][]item.Item
}

// NewIndex builds the lookup index over a batch of items.
func NewIndex(items []item.Item) *Index {
	x := &Index{
		byCode: make(map[codeKey][]item.Item),
		byKey:  make(map[item.Key][]item.Item),
	}
	for _, it := range items {
		ck := codeKey{itemCode: it.ItemCode, channel: it.Channel}
		x.byCode[ck] = append(x.byCode[ck], it)
		k := item.KeyOf(it)
		x.byKey[k] = append(x.byKey[k], it)
	}
	return x
}

// ByKey returns every item addressed by one (item_code, units) input row.
func (x *Index) ByKey(k item.Key) []item.Item {
	return x.byKey[k]
}

// Siblings returns all weight-based items sharing an item code on a channel.
// Regular (wrap=10000) items with the same code are independent products and
// never participate in a cascade.
func (x *Index) Siblings(itemCode string, channel item.Channel) []item.Item {
	var out []item.Item
	for _, it := range x.byCode[codeKey{itemCode: itemCode, channel: channel}] {
		if it.Wrap == item.WrapWeighed {
			out = append(out, it)
		}
	}
	return out
}

// ChildrenOf returns the cascade children of a parent: weight-based siblings
// with WDF above 1. Siblings with WDF=1 are other parents — legitimately
// distinct physical products sharing a code — and are skipped, never
// cascaded into. When more than one parent shares the code a non-fatal
// AmbiguousRole warning is returned alongside the children for the caller
// to log.
func (x *Index) ChildrenOf(parent item.Item) ([]item.Item, *apperror.AppError) {
	var children []item.Item
	parentCount := 0
	for _, sib := range x.Siblings(parent.ItemCode, parent.Channel) {
		switch Classify(sib) {
		case RoleParent:
			parentCount++
		case RoleChild:
			children = append(children, sib)
		}
	}

	var warning *apperror.AppError
	if parentCount > 1 {
		warning = apperror.NewAmbiguousRole(parent.ItemCode, parentCount)
	}
	return children, warning
}
