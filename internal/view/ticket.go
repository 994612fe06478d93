package view

// Ticket identifies one in-flight fetch. A result is committed only while its
// ticket is still the current one for the value it targets.
type Ticket struct {
	gen uint64
	key string
}

// Key is the dependency the fetch was issued for (page, paper id, query...).
func (t Ticket) Key() string { return t.key }

// IsZero reports whether the ticket was never issued.
func (t Ticket) IsZero() bool { return t.gen == 0 }

type tracker struct {
	gen     uint64
	current Ticket
}

func (tr *tracker) issue(key string) Ticket {
	tr.gen++
	tr.current = Ticket{gen: tr.gen, key: key}
	return tr.current
}

func (tr *tracker) matches(t Ticket) bool {
	return !t.IsZero() && t == tr.current
}

// invalidate drops the current ticket. Called after a commit, and to make any
// in-flight result stale.
func (tr *tracker) invalidate() {
	tr.current = Ticket{}
}
