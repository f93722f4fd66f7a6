package types

type ComponentID int

// Component is the interface that the user needs to implement to create a new component type.
type Component interface {
	// Name returns the name of the component.
	Name() string
}

// ComponentMetadata describes a registered component type.
type ComponentMetadata interface {
	ID() ComponentID
	Name() string
}

// Access is the way a query slot reaches into a component store.
type Access uint8

const (
	// ReadOnly slots receive a copy of the component value.
	ReadOnly Access = iota
	// ReadWrite slots receive a pointer into the store.
	ReadWrite
)

func (a Access) String() string {
	switch a {
	case ReadOnly:
		return "read"
	case ReadWrite:
		return "write"
	}
	return "unknown"
}
