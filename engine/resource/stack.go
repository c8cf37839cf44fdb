package resource

// Stack releases everything pushed onto it in reverse push order. Pushing each
// resource right after it is created gives strict reverse-creation teardown on
// both the clean path and every failure path.
type Stack struct {
	items []Releaser
}

// ReleaseFunc adapts a plain function into a Releaser.
type ReleaseFunc func()

// Release calls f.
func (f ReleaseFunc) Release() {
	if f != nil {
		f()
	}
}

// Push adds r to the top of the stack. Nil releasers are ignored.
func (s *Stack) Push(r Releaser) {
	if r == nil {
		return
	}
	s.items = append(s.items, r)
}

// PushFunc adds f to the top of the stack.
func (s *Stack) PushFunc(f func()) {
	if f == nil {
		return
	}
	s.items = append(s.items, ReleaseFunc(f))
}

// Len returns the number of pending releases.
func (s *Stack) Len() int {
	return len(s.items)
}

// Release pops and releases every item, newest first. The stack is empty and
// reusable afterwards.
func (s *Stack) Release() {
	for i := len(s.items) - 1; i >= 0; i-- {
		s.items[i].Release()
		s.items[i] = nil
	}
	s.items = s.items[:0]
}
