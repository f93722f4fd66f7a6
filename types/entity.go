package types

// EntityID is the opaque identity of an entity. It is the only key shared between an entity and the stores holding
// its components.
type EntityID uint64
