package expand

import "fmt"

// Kind selects the entry-point shape of a generation routine. It determines
// arity and token handling, not diagnostic semantics.
type Kind uint8

const (
	// KindFunction is a function-like entry: one input stream.
	KindFunction Kind = iota
	// KindAttribute is an attribute entry: annotation arguments plus the
	// annotated item, two streams.
	KindAttribute
	// KindDerive is a derive entry: the item stream alone.
	KindDerive
)

func (k Kind) String() string {
	switch k {
	case KindFunction:
		return "function"
	case KindAttribute:
		return "attribute"
	case KindDerive:
		return "derive"
	}
	return "unknown"
}

// DummySeed selects how the fallback output buffer is initialized before the
// routine runs.
type DummySeed uint8

const (
	// SeedNone starts with an empty dummy buffer.
	SeedNone DummySeed = iota
	// SeedFromInput pre-seeds the dummy with the input stream.
	SeedFromInput
	// SeedFromItem pre-seeds the dummy with the annotated item, so a
	// completely failing attribute still reproduces the original item.
	// Valid only for KindAttribute.
	SeedFromItem
)

func (s DummySeed) String() string {
	switch s {
	case SeedNone:
		return "none"
	case SeedFromInput:
		return "from_input"
	case SeedFromItem:
		return "from_item"
	}
	return "unknown"
}

// Config is the immutable per-entry configuration, set once at registration
// and never per call.
type Config struct {
	Kind Kind
	Seed DummySeed
}

// Validate rejects configurations the adapter cannot honor.
func (c Config) Validate() error {
	if c.Seed == SeedFromItem && c.Kind != KindAttribute {
		return fmt.Errorf("expand: dummy seed %s requires an attribute entry, got %s", c.Seed, c.Kind)
	}
	return nil
}
