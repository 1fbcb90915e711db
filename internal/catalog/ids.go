package catalog

import (
	"strconv"
	"strings"
	"sync"
	"time"
)

// CustomIDPrefix marks products created through the admin surface.
const CustomIDPrefix = "custom-"

// NewProductID formats the admin product id for the instant now.
func NewProductID(now time.Time) string {
	return CustomIDPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}

// IDGenerator issues admin product ids of the form custom-<unix millis>.
// Ids are strictly increasing even when two are requested in the same
// millisecond.
type IDGenerator struct {
	mutex sync.Mutex
	last  int64
	now   func() time.Time
}

// NewIDGenerator returns a generator reading the wall clock.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{now: time.Now}
}

// Next returns a fresh product id.
func (g *IDGenerator) Next() string {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	ms := g.now().UnixMilli()
	if ms <= g.last {
		ms = g.last + 1
	}
	g.last = ms
	return NewProductID(time.UnixMilli(ms))
}

// IsCustomID reports whether id belongs to an admin-added product.
func IsCustomID(id string) bool {
	return strings.HasPrefix(id, CustomIDPrefix)
}
