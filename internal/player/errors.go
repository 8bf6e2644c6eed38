// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package player

import "errors"

// Sentinel errors for player state operations.
var (
	// ErrNotFound means the account, item, mail or effect does not exist
	// for the caller.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput means an argument failed validation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedItemType is returned when selecting an item into a slot
	// that cannot hold a selection.
	ErrUnsupportedItemType = errors.New("unsupported item type")

	// ErrItemTypeMismatch means the item's definition is not of the slot's type.
	ErrItemTypeMismatch = errors.New("item type does not match slot")

	// ErrUnknownDefinition means the item catalog has no such definition.
	ErrUnknownDefinition = errors.New("unknown item definition")
)
