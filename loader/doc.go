// Package loader turns logical template names into readable streams.
//
// A [Loader] builds a location from a name by dropping a leading "/" and
// adding its prefix and suffix ("/" and ".hbs" by default), then opens the
// location with a [Source]:
//
//	l := loader.New(loader.Dir("templates"))
//	rc, err := l.Load(ctx, "partials/header") // templates/partials/header.hbs
//
// A missing resource is always reported as [ErrResourceNotFound], never as an
// empty stream.
package loader
