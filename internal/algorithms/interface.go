package algorithms

import (
	"filterlab/internal/filters"
	"filterlab/internal/kernel"
)

// BuildFunc turns merged parameters into a ready operator. se is the structuring element the
// manager is currently configured with; builders that do not use it ignore it.
type BuildFunc func(params Parameters, se *kernel.StructuringElement) (filters.Operator, error)

// Descriptor is one entry of the operator menu.
type Descriptor struct {
	Name        string
	Description string
	Defaults    Parameters
	Build       BuildFunc
}
