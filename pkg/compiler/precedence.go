package compiler

// Associativity of an operator group.
type Associativity int

const (
	LeftToRight Associativity = iota
	RightToLeft
)

func (a Associativity) String() string {
	if a == RightToLeft {
		return "right-to-left"
	}
	return "left-to-right"
}

// PrecedenceGroup is a set of operators sharing one precedence rank.
type PrecedenceGroup struct {
	Operators     []string
	Associativity Associativity
}

// precedenceTable is ordered from tightest to loosest binding. The index of a
// group is its rank.
var precedenceTable = [...]PrecedenceGroup{
	{[]string{"++", "--", "()", "[]", "(", "[", ".", "->"}, LeftToRight},
	{[]string{"*", "/", "%"}, LeftToRight},
	{[]string{"+", "-"}, LeftToRight},
	{[]string{"<<", ">>"}, LeftToRight},
	{[]string{"<", "<=", ">", ">="}, LeftToRight},
	{[]string{"==", "!="}, LeftToRight},
	{[]string{"&"}, LeftToRight},
	{[]string{"^"}, LeftToRight},
	{[]string{"|"}, LeftToRight},
	{[]string{"&&"}, LeftToRight},
	{[]string{"||"}, LeftToRight},
	{[]string{"?", ":"}, RightToLeft},
	{[]string{"=", "+=", "-=", "*=", "/=", "%=", "<<=", ">>=", "&=", "^=", "|="}, RightToLeft},
	{[]string{","}, LeftToRight},
}

// opRanks is built once from precedenceTable.
var opRanks = func() map[string]int {
	m := make(map[string]int)
	for rank, g := range precedenceTable {
		for _, op := range g.Operators {
			m[op] = rank
		}
	}
	return m
}()

// PrecedenceGroups returns a copy of the operator precedence table.
func PrecedenceGroups() []PrecedenceGroup {
	out := make([]PrecedenceGroup, len(precedenceTable))
	copy(out, precedenceTable[:])
	return out
}

// LookupOperator returns the rank and associativity of op. Lower ranks bind
// tighter. ok is false for text that is not in the table.
func LookupOperator(op string) (rank int, assoc Associativity, ok bool) {
	rank, ok = opRanks[op]
	if !ok {
		return -1, LeftToRight, false
	}
	return rank, precedenceTable[rank].Associativity, true
}

// shouldRotate reports whether a tree built as (a left (b right c)) must be
// re-associated into ((a left b) right c).
func shouldRotate(left, right string) bool {
	lr, la, lok := LookupOperator(left)
	rr, _, rok := LookupOperator(right)
	if !lok || !rok {
		return false
	}
	if lr < rr {
		return true
	}
	return lr == rr && la == LeftToRight
}
