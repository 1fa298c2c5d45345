package dictxml

import "github.com/dudanian/dictxml/internal/stack"

// openElement is one frame of the open-element stack: the element name
// plus the position of its start tag, for diagnostics when it is never
// closed.
type openElement struct {
	name string
	pos  Position
}

type elemStack struct {
	stack.SimpleStack
}

func (s *elemStack) push(e openElement) {
	s.SimpleStack.Push(stack.AnyItem(e))
}

func (s *elemStack) pop() (openElement, bool) {
	item := s.PeekLast()
	if item == nil {
		return openElement{}, false
	}
	s.PopLast()
	return item.(openElement), true
}

func (s *elemStack) peek() (openElement, bool) {
	item := s.PeekLast()
	if item == nil {
		return openElement{}, false
	}
	return item.(openElement), true
}

// attrList accumulates attributes in document order while rejecting
// duplicate names.
type attrList struct {
	stack.UniqueStack
}

type attrItem struct {
	name  string
	value string
}

func (i attrItem) Key() string {
	return i.name
}

func (l *attrList) add(name, value string) error {
	return l.UniqueStack.Push(attrItem{name: name, value: value})
}

func (l *attrList) attributes() []Attribute {
	if l.Len() == 0 {
		return nil
	}
	attrs := make([]Attribute, 0, l.Len())
	for _, item := range l.UniqueStack {
		a := item.(attrItem)
		attrs = append(attrs, Attribute{Name: a.name, Value: a.value})
	}
	return attrs
}
