package tessera

import (
	"github.com/tesseraworks/tessera/component"
	"github.com/tesseraworks/tessera/gamestate"
	"github.com/tesseraworks/tessera/search"
	"github.com/tesseraworks/tessera/snapshot"
	"github.com/tesseraworks/tessera/types"
)

// EntityID is re-exported so most callers only import the root package.
type EntityID = types.EntityID

var (
	ErrEntityDoesNotExist         = gamestate.ErrEntityDoesNotExist
	ErrComponentNotOnEntity       = gamestate.ErrComponentNotOnEntity
	ErrComponentNotRegistered     = gamestate.ErrComponentNotRegistered
	ErrEntitySlotsExhausted       = gamestate.ErrEntitySlotsExhausted
	ErrComponentAlreadyRegistered = component.ErrComponentAlreadyRegistered
	ErrNoEntitiesFound            = search.ErrNoEntitiesFound
	ErrSnapshotVersionMismatch    = snapshot.ErrVersionMismatch
)
