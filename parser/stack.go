package parser

// symbolStack holds coded grammar symbols, top is the last item.
type symbolStack struct {
	items []int
}

func newSymbolStack(capacity int) *symbolStack {
	return &symbolStack{make([]int, 0, capacity)}
}

func (s *symbolStack) IsEmpty() bool {
	return len(s.items) == 0
}

func (s *symbolStack) Push(symbols ...int) {
	s.items = append(s.items, symbols...)
}

// PushReversed pushes symbols so that the first one ends up on top.
func (s *symbolStack) PushReversed(symbols []int) {
	for i := len(symbols) - 1; i >= 0; i-- {
		s.items = append(s.items, symbols[i])
	}
}

func (s *symbolStack) Top() int {
	return s.items[len(s.items)-1]
}

func (s *symbolStack) Drop() {
	if len(s.items) != 0 {
		s.items = s.items[:len(s.items)-1]
	}
}

func (s *symbolStack) Clear() {
	s.items = s.items[:0]
}
