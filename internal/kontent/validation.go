package kontent

import (
	"strings"

	"git.home.luguber.info/inful/kontentsource/internal/foundation/errors"
)

// ValidateStructure checks that item has the minimal node shape: a system
// codename and an elements map.
func ValidateStructure(item *ItemNode) error {
	if item == nil {
		return errors.StructureError("item is nil").Build()
	}
	if strings.TrimSpace(item.System.Codename) == "" {
		return errors.StructureError("item has no system codename").
			WithContext("item_id", item.ID).
			Build()
	}
	if item.Elements == nil {
		return errors.StructureError("item has no elements").
			WithContext("codename", item.System.Codename).
			Build()
	}
	return nil
}
