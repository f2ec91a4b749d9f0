package extract

// strategy is one candidate-producing step of an extraction cascade.
type strategy[T any] struct {
	name string
	find func(text string) (T, bool)
}

// cascade is an ordered list of strategies; earlier entries win.
type cascade[T any] []strategy[T]

// first runs the strategies in order and returns the first hit together with
// the name of the strategy that produced it.
func (c cascade[T]) first(text string) (T, string, bool) {
	for _, s := range c {
		if v, ok := s.find(text); ok {
			return v, s.name, true
		}
	}
	var zero T
	return zero, "", false
}

// names lists the strategy names in priority order.
func (c cascade[T]) names() []string {
	out := make([]string, len(c))
	for i, s := range c {
		out[i] = s.name
	}
	return out
}
