// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

package relationship

import (
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/ident"
)

// Pair is an unordered pair of accounts in canonical order: Low sorts
// strictly before High by byte comparison. The zero Pair is invalid; build
// one with NewPair.
type Pair struct {
	Low  ulid.ULID
	High ulid.ULID
}

// NewPair orders a and b. It is the only way relationship code turns two
// caller-supplied identities into a storage key.
func NewPair(a, b ulid.ULID) (Pair, error) {
	if ident.IsZero(a) || ident.IsZero(b) {
		return Pair{}, oops.Code("RELATIONSHIP_INVALID_IDENTITY").Wrap(ErrInvalidIdentity)
	}
	switch a.Compare(b) {
	case 0:
		return Pair{}, oops.Code("RELATIONSHIP_SELF_PAIR").With("account_id", a.String()).Wrap(ErrSelfPair)
	case 1:
		a, b = b, a
	}
	return Pair{Low: a, High: b}, nil
}

// Contains reports whether id is one side of the pair.
func (p Pair) Contains(id ulid.ULID) bool {
	return p.Low == id || p.High == id
}

// Other returns the side of the pair that is not id. It returns the zero
// identity when id is not in the pair.
func (p Pair) Other(id ulid.ULID) ulid.ULID {
	switch id {
	case p.Low:
		return p.High
	case p.High:
		return p.Low
	}
	return ulid.ULID{}
}

// String renders the pair as "low:high".
func (p Pair) String() string {
	return p.Low.String() + ":" + p.High.String()
}
