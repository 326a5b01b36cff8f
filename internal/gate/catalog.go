package gate

import (
	"fmt"
	"strings"
)

// DefaultAllowed is the operation pool used when a configuration does not name
// one. It covers every kind the layer translator can emit.
var DefaultAllowed = []Kind{Identity, RX, RY, RZ, Rot, CU3}

// Catalog is the fixed vocabulary [Start] + allowed + [End] used to one-hot
// encode operation kinds. It is immutable after construction.
type Catalog struct {
	kinds []Kind
	index map[Kind]int
}

// NewCatalog builds the vocabulary for the given allowed kinds, preserving
// their order. Sentinels and duplicates are rejected.
func NewCatalog(allowed []Kind) (*Catalog, error) {
	kinds := make([]Kind, 0, len(allowed)+2)
	index := make(map[Kind]int, len(allowed)+2)

	kinds = append(kinds, Start)
	index[Start] = 0
	for _, k := range allowed {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %d", ErrUnknownGateKind, uint8(k))
		}
		if k.IsSentinel() {
			return nil, fmt.Errorf("%w: sentinel %s cannot be listed as an allowed kind", ErrUnknownGateKind, k)
		}
		if _, dup := index[k]; dup {
			return nil, fmt.Errorf("%w: %s listed more than once", ErrUnknownGateKind, k)
		}
		index[k] = len(kinds)
		kinds = append(kinds, k)
	}
	index[End] = len(kinds)
	kinds = append(kinds, End)

	return &Catalog{kinds: kinds, index: index}, nil
}

// NewCatalogFromNames parses names and builds a catalog from them.
func NewCatalogFromNames(names []string) (*Catalog, error) {
	kinds, err := ParseKinds(names)
	if err != nil {
		return nil, err
	}
	return NewCatalog(kinds)
}

// Size is the vocabulary size K, sentinels included.
func (c *Catalog) Size() int {
	return len(c.kinds)
}

// Kinds returns a copy of the vocabulary in encoding order.
func (c *Catalog) Kinds() []Kind {
	out := make([]Kind, len(c.kinds))
	copy(out, c.kinds)
	return out
}

// Allowed returns the configured kinds without the sentinels.
func (c *Catalog) Allowed() []Kind {
	out := make([]Kind, len(c.kinds)-2)
	copy(out, c.kinds[1:len(c.kinds)-1])
	return out
}

// Contains reports whether k is part of the vocabulary.
func (c *Catalog) Contains(k Kind) bool {
	_, ok := c.index[k]
	return ok
}

// Index returns the one-hot position of k.
func (c *Catalog) Index(k Kind) (int, error) {
	i, ok := c.index[k]
	if !ok {
		return 0, fmt.Errorf("%w: %s is not in the allowed pool %s", ErrUnknownGateKind, k, c)
	}
	return i, nil
}

// Encode returns the one-hot vector of length Size for k.
func (c *Catalog) Encode(k Kind) ([]int, error) {
	i, err := c.Index(k)
	if err != nil {
		return nil, err
	}
	vec := make([]int, len(c.kinds))
	vec[i] = 1
	return vec, nil
}

// Key is a stable identifier of the vocabulary, suitable as a cache key.
func (c *Catalog) Key() string {
	return vocabularyKey(c.Allowed())
}

// String renders the vocabulary, e.g. [START RX C(U3) END].
func (c *Catalog) String() string {
	names := make([]string, len(c.kinds))
	for i, k := range c.kinds {
		names[i] = k.String()
	}
	return "[" + strings.Join(names, " ") + "]"
}

func vocabularyKey(allowed []Kind) string {
	names := make([]string, len(allowed))
	for i, k := range allowed {
		names[i] = k.String()
	}
	return strings.Join(names, ",")
}
