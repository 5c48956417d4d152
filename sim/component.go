package sim

import "log"

// A Named object is an object that has a name.
type Named interface {
	Name() string
}

// A Component is an element that is being simulated. It handles its own
// events and can be hooked.
type Component interface {
	Named
	Handler
	Hookable
}

// ComponentBase provides some functions that other component can use.
type ComponentBase struct {
	*HookableBase
	name string
}

// NewComponentBase creates a new ComponentBase
func NewComponentBase(name string) *ComponentBase {
	NameMustBeValid(name)

	c := new(ComponentBase)
	c.HookableBase = NewHookableBase()
	c.name = name

	return c
}

// Name returns the name of the component.
func (c *ComponentBase) Name() string {
	return c.name
}

// NameMustBeValid panics if the name is empty or contains white spaces.
func NameMustBeValid(name string) {
	if name == "" {
		log.Panic("name must not be empty")
	}

	for _, r := range name {
		if r == ' ' || r == '\t' || r == '\n' {
			log.Panicf("name %q must not contain white spaces", name)
		}
	}
}
