package credential

import "os"

// Bag is a read-only snapshot of key environment variables, taken once at
// startup and passed by reference to components that resolve credentials.
// It plays the role the injected env script plays for the web UI: a fixed
// name-to-value view of the key variables, decoupled from later
// environment mutation. A nil Bag is valid and holds nothing.
type Bag map[string]string

// NewBag builds a Bag from the given values. The map is copied so later
// mutation of the argument cannot leak into the snapshot.
func NewBag(values map[string]string) Bag {
	b := make(Bag, len(values))
	for k, v := range values {
		b[k] = v
	}
	return b
}

// CaptureBag snapshots the primary key variables from the process
// environment. Unset variables are captured as empty strings, matching
// the env asset contract: every enumerated name is present, possibly
// empty.
func CaptureBag() Bag {
	b := make(Bag, len(vars))
	for _, name := range PrimaryVars() {
		b[name] = os.Getenv(name)
	}
	return b
}

// Get returns the value stored under name, or "" when absent.
func (b Bag) Get(name string) string {
	return b[name]
}
