// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package catalog loads the item definitions the game server knows about.
//
// A catalog is a YAML document listing every item definition with its numeric
// id, a stable key and its type. Definitions flagged as starter items are
// handed to every new account at registration.
package catalog

import (
	_ "embed"
	"errors"
	"os"
	"regexp"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"
	"gopkg.in/yaml.v3"
)

// ItemType is the equipment slot an item definition belongs to.
type ItemType string

// Item types.
const (
	ItemTypeRod   ItemType = "rod"
	ItemTypeBait  ItemType = "bait"
	ItemTypeExtra ItemType = "extra"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeRod, ItemTypeBait, ItemTypeExtra:
		return true
	}
	return false
}

// SupportedVersions is the range of catalog document versions this build reads.
const SupportedVersions = "^1.0"

// ErrInvalid is wrapped by every error caused by a bad catalog document.
var ErrInvalid = errors.New("invalid item catalog")

// Item is one item definition.
type Item struct {
	ID      int      `yaml:"id" json:"id" jsonschema:"minimum=0"`
	Key     string   `yaml:"key" json:"key" jsonschema:"pattern=^[a-z][a-z0-9_]*$"`
	Type    ItemType `yaml:"type" json:"type" jsonschema:"enum=rod,enum=bait,enum=extra"`
	Starter bool     `yaml:"starter,omitempty" json:"starter,omitempty"`
}

// Document is the on-disk catalog format.
type Document struct {
	Version string `yaml:"version" json:"version" jsonschema:"minLength=1"`
	Items   []Item `yaml:"items" json:"items" jsonschema:"minItems=1"`
}

var keyPattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

//go:embed default.yaml
var defaultCatalog []byte

// Catalog is an immutable, validated set of item definitions.
type Catalog struct {
	version  *semver.Version
	items    map[int]Item
	byKey    map[string]Item
	starters []int
}

// Default returns the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Load(defaultCatalog)
}

// LoadFile reads and validates the catalog at path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator-supplied path
	if err != nil {
		return nil, oops.Code("CATALOG_READ_FAILED").With("path", path).Wrap(err)
	}
	c, err := Load(data)
	if err != nil {
		return nil, oops.With("path", path).Wrap(err)
	}
	return c, nil
}

// Load validates data against the catalog schema and builds a Catalog.
func Load(data []byte) (*Catalog, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "decode: %v", err)
	}

	version, err := semver.NewVersion(doc.Version)
	if err != nil {
		return nil, oops.Code("CATALOG_INVALID").With("version", doc.Version).Wrapf(ErrInvalid, "version: %v", err)
	}
	supported, err := semver.NewConstraint(SupportedVersions)
	if err != nil {
		return nil, oops.Code("CATALOG_INVALID").Wrap(err)
	}
	if !supported.Check(version) {
		return nil, oops.Code("CATALOG_UNSUPPORTED_VERSION").
			With("version", version.String()).
			With("supported", SupportedVersions).
			Wrapf(ErrInvalid, "catalog version %s is not supported", version)
	}

	c := &Catalog{
		version: version,
		items:   make(map[int]Item, len(doc.Items)),
		byKey:   make(map[string]Item, len(doc.Items)),
	}
	for _, item := range doc.Items {
		if err := c.add(item); err != nil {
			return nil, err
		}
	}
	if len(c.starters) == 0 {
		return nil, oops.Code("CATALOG_INVALID").Wrapf(ErrInvalid, "no starter items defined")
	}
	return c, nil
}

func (c *Catalog) add(item Item) error {
	switch {
	case item.ID < 0:
		return oops.Code("CATALOG_INVALID").With("id", item.ID).Wrapf(ErrInvalid, "negative item id")
	case !keyPattern.MatchString(item.Key):
		return oops.Code("CATALOG_INVALID").With("key", item.Key).Wrapf(ErrInvalid, "bad item key")
	case !item.Type.Valid():
		return oops.Code("CATALOG_INVALID").With("type", string(item.Type)).Wrapf(ErrInvalid, "unknown item type")
	}
	if _, dup := c.items[item.ID]; dup {
		return oops.Code("CATALOG_DUPLICATE_ITEM").With("id", item.ID).Wrapf(ErrInvalid, "item id defined twice")
	}
	if _, dup := c.byKey[item.Key]; dup {
		return oops.Code("CATALOG_DUPLICATE_ITEM").With("key", item.Key).Wrapf(ErrInvalid, "item key defined twice")
	}
	c.items[item.ID] = item
	c.byKey[item.Key] = item
	if item.Starter {
		c.starters = append(c.starters, item.ID)
	}
	return nil
}

// Version returns the document version.
func (c *Catalog) Version() string {
	return c.version.String()
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.items)
}

// Lookup returns the definition with id.
func (c *Catalog) Lookup(id int) (Item, bool) {
	item, ok := c.items[id]
	return item, ok
}

// LookupKey returns the definition with key.
func (c *Catalog) LookupKey(key string) (Item, bool) {
	item, ok := c.byKey[key]
	return item, ok
}

// TypeOf returns the type of the definition with id.
func (c *Catalog) TypeOf(id int) (ItemType, bool) {
	item, ok := c.items[id]
	return item.Type, ok
}

// StarterDefinitions returns the starter definition ids in document order.
func (c *Catalog) StarterDefinitions() []int {
	out := make([]int, len(c.starters))
	copy(out, c.starters)
	return out
}
