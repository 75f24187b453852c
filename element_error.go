package enrich

import (
	"errors"
	"fmt"
)

// ElementError wraps a Process failure with the element it was processing,
// for correlation on the errors channel.
type ElementError[E comparable] struct {
	element E
	err     error
}

func newElementError[E comparable](err error, element E) error {
	if err == nil {
		return nil
	}
	return &ElementError[E]{element: element, err: err}
}

func (e *ElementError[E]) Error() string {
	return fmt.Sprintf("%s: process %v: %v", Namespace, e.element, e.err)
}

func (e *ElementError[E]) Unwrap() error { return e.err }

// Element returns the element whose processing failed.
func (e *ElementError[E]) Element() E { return e.element }

func (e *ElementError[E]) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			_, _ = fmt.Fprintf(s, "%s: process %v: %+v", Namespace, e.element, e.err)
			return
		}
		fallthrough
	case 's':
		_, _ = fmt.Fprint(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// ExtractElement returns the failed element from err if present.
func ExtractElement[E comparable](err error) (E, bool) {
	var ee *ElementError[E]
	if errors.As(err, &ee) {
		return ee.element, true
	}
	var zero E
	return zero, false
}
