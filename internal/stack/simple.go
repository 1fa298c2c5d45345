package stack

type SimpleStack []AnyItem

func (s *SimpleStack) Push(i AnyItem) {
	*s = append(*s, i)
}

func (s *SimpleStack) PopLast() {
	if s.Len() <= 0 {
		return
	}
	*s = (*s)[:s.Len()-1]
}

func (s SimpleStack) PeekLast() AnyItem {
	if l := s.Len(); l > 0 {
		return s[l-1]
	}
	return nil
}

func (s SimpleStack) Len() int {
	return len(s)
}
