package stack

type AnyItem interface{}

type nilItem struct{}

func (i nilItem) Key() string {
	return ""
}

var NilItem = nilItem{}
