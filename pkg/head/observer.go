package head

// Observer receives registry events. Implementations must not call back
// into the registry.
type Observer interface {
	Inserted(n Node)
	Updated(prev, next Node)
	Removed(n Node)
	DOMError(op string, err error)
}

type nopObserver struct{}

func (nopObserver) Inserted(Node)          {}
func (nopObserver) Updated(Node, Node)     {}
func (nopObserver) Removed(Node)           {}
func (nopObserver) DOMError(string, error) {}
