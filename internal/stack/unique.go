package stack

import "errors"

var ErrDuplicateItem = errors.New("item already exists")

type LookupItem interface {
	Key() string
}

// UniqueStack preserves insertion order while rejecting duplicate keys.
type UniqueStack []LookupItem

func (s *UniqueStack) Push(i LookupItem) error {
	if s.Lookup(i.Key()) != NilItem {
		return ErrDuplicateItem
	}
	*s = append(*s, i)
	return nil
}

func (s UniqueStack) Lookup(key string) LookupItem {
	for _, item := range s {
		if item.Key() == key {
			return item
		}
	}
	return NilItem
}

func (s UniqueStack) Len() int {
	return len(s)
}
