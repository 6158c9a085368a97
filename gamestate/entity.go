package gamestate

import (
	"math"

	"github.com/tesseraworks/tessera/types"
)

type entitySlot struct {
	generation uint32
	alive      bool
}

// entityAllocator hands out EntityIDs and recycles slots of destroyed
// entities. A slot's generation is bumped on release, so an EntityID minted
// before the release can never match the slot's next occupant.
type entityAllocator struct {
	slots    []entitySlot
	freeList []uint32
	live     int
}

func newEntityAllocator() entityAllocator {
	return entityAllocator{
		slots:    make([]entitySlot, 0),
		freeList: make([]uint32, 0),
	}
}

func (a *entityAllocator) allocate() (types.EntityID, error) {
	if n := len(a.freeList); n > 0 {
		idx := a.freeList[n-1]
		a.freeList = a.freeList[:n-1]
		a.slots[idx].alive = true
		a.live++
		return types.EntityID{Slot: idx, Generation: a.slots[idx].generation}, nil
	}
	if len(a.slots) > math.MaxUint32 {
		return types.EntityID{}, ErrEntitySlotsExhausted
	}
	// Generations start at 1 so the zero EntityID is never a live entity.
	a.slots = append(a.slots, entitySlot{generation: 1, alive: true})
	a.live++
	return types.EntityID{Slot: uint32(len(a.slots) - 1), Generation: 1}, nil
}

// release marks the entity dead and queues its slot for reuse. Releasing a
// dead or unknown id reports false and changes nothing.
func (a *entityAllocator) release(id types.EntityID) bool {
	if !a.isAlive(id) {
		return false
	}
	a.slots[id.Slot].alive = false
	a.slots[id.Slot].generation++
	a.freeList = append(a.freeList, id.Slot)
	a.live--
	return true
}

func (a *entityAllocator) isAlive(id types.EntityID) bool {
	if int(id.Slot) >= len(a.slots) {
		return false
	}
	slot := a.slots[id.Slot]
	return slot.alive && slot.generation == id.Generation
}

func (a *entityAllocator) liveCount() int {
	return a.live
}

// each visits every live entity in slot order.
func (a *entityAllocator) each(fn func(types.EntityID) bool) {
	for i, slot := range a.slots {
		if !slot.alive {
			continue
		}
		if !fn(types.EntityID{Slot: uint32(i), Generation: slot.generation}) {
			return
		}
	}
}
