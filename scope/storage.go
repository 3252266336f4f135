package scope

// PartialsKey is the reserved [Storage] entry holding the [Partials] of a
// scope chain.
const PartialsKey = "partials"

// Storage is the mutable map shared by every [Scope] in a chain.
type Storage map[string]any

// Partials maps partial template names to compiled templates. Scopes never
// inspect its values.
type Partials map[string]any

// newStorage returns seed, or a new Storage if seed is nil, with an empty
// [Partials] added under [PartialsKey] unless one is already present.
func newStorage(seed Storage) Storage {
	if seed != nil {
		if _, ok := seed[PartialsKey]; !ok {
			seed[PartialsKey] = Partials{}
		}

		return seed
	}

	return Storage{PartialsKey: Partials{}}
}
