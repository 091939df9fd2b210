// Package catalog holds the static, ordered collection of POIs the viewer
// shows. A Catalog is built once at startup and is read-only afterwards, so
// it needs no locking.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"poiviewer/internal/domain/entities"
)

var (
	ErrPOINotFound  = errors.New("poi not found")
	ErrDuplicatePOI = errors.New("duplicate poi id")
)

// Catalog is an immutable, ordered list of POIs. Definition order is kept but
// carries no meaning for queries.
type Catalog struct {
	pois  []entities.POI
	index map[string]int // id → position in pois
}

// New validates pois and builds a catalog. The slice is copied; later changes
// to it do not affect the catalog. An empty catalog is valid.
func New(pois []entities.POI) (*Catalog, error) {
	c := &Catalog{
		pois:  make([]entities.POI, 0, len(pois)),
		index: make(map[string]int, len(pois)),
	}
	for _, p := range pois {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		if _, exists := c.index[p.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicatePOI, p.ID)
		}
		c.index[p.ID] = len(c.pois)
		c.pois = append(c.pois, p)
	}
	return c, nil
}

// All returns the POIs in definition order. Each call returns a fresh slice.
func (c *Catalog) All() []entities.POI {
	out := make([]entities.POI, len(c.pois))
	copy(out, c.pois)
	return out
}

// Get looks up a POI by id.
func (c *Catalog) Get(id string) (entities.POI, error) {
	i, ok := c.index[id]
	if !ok {
		return entities.POI{}, fmt.Errorf("%w: %s", ErrPOINotFound, id)
	}
	return c.pois[i], nil
}

// Len returns the number of POIs.
func (c *Catalog) Len() int {
	return len(c.pois)
}

// file is the on-disk catalog format.
type file struct {
	POIs []entities.POI `json:"pois"`
}

// LoadFile reads a JSON catalog of the form {"pois": [...]}.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a JSON catalog document.
func Parse(data []byte) (*Catalog, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(f.POIs)
}
