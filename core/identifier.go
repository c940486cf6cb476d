package core

import "github.com/google/uuid"

// ResourceID uniquely identifies a device resource (buffer, image, pipeline,
// descriptor set, ...) for the lifetime of the process. State caching and
// hazard queries compare IDs, never values.
type ResourceID uuid.UUID

// NilResourceID is the zero value, meaning "no resource".
var NilResourceID = ResourceID(uuid.Nil)

func NewResourceID() ResourceID {
	return ResourceID(uuid.New())
}

func (id ResourceID) IsNil() bool {
	return id == NilResourceID
}

func (id ResourceID) String() string {
	return uuid.UUID(id).String()
}
