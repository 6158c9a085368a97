package gamestate

import "github.com/tesseraworks/tessera/types"

// tagIndex is the many-to-many map between plain string tags and entities.
// Both directions are kept in attachment order so tag queries are stable
// within a frame.
type tagIndex struct {
	byTag    map[string]*orderedEntities
	byEntity map[types.EntityID][]string
}

func newTagIndex() *tagIndex {
	return &tagIndex{
		byTag:    make(map[string]*orderedEntities),
		byEntity: make(map[types.EntityID][]string),
	}
}

func (t *tagIndex) add(id types.EntityID, tag string) {
	set, ok := t.byTag[tag]
	if !ok {
		set = newOrderedEntities()
		t.byTag[tag] = set
	}
	if !set.add(id) {
		return
	}
	t.byEntity[id] = append(t.byEntity[id], tag)
}

func (t *tagIndex) remove(id types.EntityID, tag string) bool {
	set, ok := t.byTag[tag]
	if !ok || !set.remove(id) {
		return false
	}
	if set.len() == 0 {
		delete(t.byTag, tag)
	}
	tags := t.byEntity[id]
	for i, existing := range tags {
		if existing == tag {
			t.byEntity[id] = append(tags[:i], tags[i+1:]...)
			break
		}
	}
	if len(t.byEntity[id]) == 0 {
		delete(t.byEntity, id)
	}
	return true
}

func (t *tagIndex) removeEntity(id types.EntityID) {
	for _, tag := range t.byEntity[id] {
		set := t.byTag[tag]
		set.remove(id)
		if set.len() == 0 {
			delete(t.byTag, tag)
		}
	}
	delete(t.byEntity, id)
}

func (t *tagIndex) has(id types.EntityID, tag string) bool {
	set, ok := t.byTag[tag]
	return ok && set.has(id)
}

func (t *tagIndex) entities(tag string) []types.EntityID {
	set, ok := t.byTag[tag]
	if !ok {
		return nil
	}
	return set.snapshot()
}

func (t *tagIndex) tagsFor(id types.EntityID) []string {
	tags := t.byEntity[id]
	out := make([]string, len(tags))
	copy(out, tags)
	return out
}

// orderedEntities is a set of entities that remembers insertion order.
type orderedEntities struct {
	order    []types.EntityID
	position map[types.EntityID]int
}

func newOrderedEntities() *orderedEntities {
	return &orderedEntities{position: make(map[types.EntityID]int)}
}

func (o *orderedEntities) add(id types.EntityID) bool {
	if _, ok := o.position[id]; ok {
		return false
	}
	o.position[id] = len(o.order)
	o.order = append(o.order, id)
	return true
}

func (o *orderedEntities) remove(id types.EntityID) bool {
	idx, ok := o.position[id]
	if !ok {
		return false
	}
	copy(o.order[idx:], o.order[idx+1:])
	o.order = o.order[:len(o.order)-1]
	delete(o.position, id)
	for i := idx; i < len(o.order); i++ {
		o.position[o.order[i]] = i
	}
	return true
}

func (o *orderedEntities) has(id types.EntityID) bool {
	_, ok := o.position[id]
	return ok
}

func (o *orderedEntities) len() int {
	return len(o.order)
}

func (o *orderedEntities) snapshot() []types.EntityID {
	out := make([]types.EntityID, len(o.order))
	copy(out, o.order)
	return out
}
