// Package expr selects list records with CEL predicates.
//
// Expressions see the record as item and its position as index:
//
//	item.group == "philosophy"
//	item.type in ["issue", "conclusion"]
//	has(item.image) && index < 3
package expr
