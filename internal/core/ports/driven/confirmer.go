package driven

// Confirmer asks the operator a yes/no question. Implementations that
// cannot ask (no terminal, automation) must answer false, which callers
// treat as a decline.
type Confirmer interface {
	Confirm(prompt string) bool
}
