package credential

import "os"

// Resolver answers "is there a usable key for this provider, and what is
// it". Lookup order is fixed: bag primary, bag alternate, process env
// primary, process env alternate. The first non-empty value wins and no
// merging takes place. The process env fallback covers contexts where the
// bag was never populated, such as tests or server-side use.
type Resolver struct {
	// Bag is the startup snapshot of key variables. May be nil.
	Bag Bag

	// Getenv is the process environment lookup. Nil means os.Getenv.
	// Tests substitute a map-backed lookup here.
	Getenv func(string) string
}

// NewResolver returns a Resolver over the given bag and the real process
// environment.
func NewResolver(bag Bag) *Resolver {
	return &Resolver{Bag: bag}
}

// Resolve returns the secret for a provider and whether one was found.
// A missing or unknown provider yields ("", false); it never returns an
// error, since an unconfigured provider is a normal state.
func (r *Resolver) Resolve(p Provider) (string, bool) {
	v, ok := vars[p]
	if !ok {
		return "", false
	}

	for _, name := range []string{v.Primary, v.Alternate} {
		if val := r.Bag.Get(name); val != "" {
			return val, true
		}
	}
	for _, name := range []string{v.Primary, v.Alternate} {
		if val := r.getenv(name); val != "" {
			return val, true
		}
	}

	return "", false
}

// Available reports, for every known provider, whether a credential
// resolves. Used by UIs to gate model choices without exposing secrets.
func (r *Resolver) Available() map[Provider]bool {
	out := make(map[Provider]bool, len(vars))
	for _, p := range Providers() {
		_, ok := r.Resolve(p)
		out[p] = ok
	}
	return out
}

func (r *Resolver) getenv(name string) string {
	if r.Getenv != nil {
		return r.Getenv(name)
	}
	return os.Getenv(name)
}
