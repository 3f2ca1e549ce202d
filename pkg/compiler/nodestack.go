package compiler

// NodeStack is the parser's working stack for nodes that are built before
// their parent exists, such as the arguments of a call.
type NodeStack struct {
	items []NodeID
}

func (s *NodeStack) Push(id NodeID) {
	s.items = append(s.items, id)
}

// Pop removes and returns the top node, or NoNode when the stack is empty.
func (s *NodeStack) Pop() NodeID {
	if len(s.items) == 0 {
		return NoNode
	}
	id := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return id
}

// Peek returns the top node without removing it.
func (s *NodeStack) Peek() NodeID {
	if len(s.items) == 0 {
		return NoNode
	}
	return s.items[len(s.items)-1]
}

func (s *NodeStack) Len() int { return len(s.items) }

// PopTo removes every node above mark, where mark is an earlier Len, and
// returns them in push order.
func (s *NodeStack) PopTo(mark int) []NodeID {
	if mark < 0 || mark > len(s.items) {
		return nil
	}
	out := append([]NodeID(nil), s.items[mark:]...)
	s.items = s.items[:mark]
	return out
}
