package cache

import (
	"sync"

	"github.com/streetracer/sim/pkg/core"
)

// VehicleCache caches vehicle identities when they spawn to avoid
// subsequent db reads. Latency in these calls is critical to keep
// the tick loop on schedule.
type VehicleCache struct {
	m        sync.Mutex
	Vehicles map[uint16]core.Vehicle
}

func NewVehicleCache() *VehicleCache {
	return &VehicleCache{
		m:        sync.Mutex{},
		Vehicles: make(map[uint16]core.Vehicle),
	}
}

func (c *VehicleCache) Reset() {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles = make(map[uint16]core.Vehicle)
}

func (c *VehicleCache) Get(id uint16) (core.Vehicle, bool) {
	c.m.Lock()
	defer c.m.Unlock()
	if v, ok := c.Vehicles[id]; ok {
		return v, true
	}
	return core.Vehicle{}, false
}

func (c *VehicleCache) Add(v core.Vehicle) {
	c.m.Lock()
	defer c.m.Unlock()
	c.Vehicles[v.ID] = v
}

func (c *VehicleCache) Len() int {
	c.m.Lock()
	defer c.m.Unlock()
	return len(c.Vehicles)
}

// SafeCounter is a thread-safe counter
type SafeCounter struct {
	mu sync.Mutex
	v  int
}

func (c *SafeCounter) Value() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.v
}

func (c *SafeCounter) Set(v int) {
	c.mu.Lock()
	c.v = v
	c.mu.Unlock()
}

func (c *SafeCounter) Inc() {
	c.mu.Lock()
	c.v++
	c.mu.Unlock()
}
