// Package kontent holds the node model produced from Delivery API content:
// item, type and taxonomy nodes, their relation fields, the language
// partitioned Collection the decorators operate on, and the normalizers that
// build nodes from raw API records.
package kontent
