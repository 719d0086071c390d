package slider

// Observable is a value that notifies subscribers when it changes.
type Observable[T comparable] struct {
	v    T
	subs []*subscriber[T]
}

type subscriber[T comparable] struct {
	fn     func(T)
	active bool
}

// Get returns the current value.
func (o *Observable[T]) Get() T {
	return o.v
}

// Set stores v and notifies subscribers if it differs from the current
// value. It reports whether the value changed.
func (o *Observable[T]) Set(v T) bool {
	if o.v == v {
		return false
	}
	o.v = v

	subs := append([]*subscriber[T](nil), o.subs...)
	for _, s := range subs {
		if s.active {
			s.fn(v)
		}
	}

	return true
}

// Subscribe registers fn to be called with every new value and returns a
// function that unregisters it.
func (o *Observable[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s := &subscriber[T]{fn: fn, active: true}
	o.subs = append(o.subs, s)

	return func() {
		if !s.active {
			return
		}
		s.active = false

		for i, p := range o.subs {
			if p == s {
				o.subs = append(o.subs[:i:i], o.subs[i+1:]...)
				return
			}
		}
	}
}
