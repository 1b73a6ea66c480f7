package query

// Selector narrows a get or delete to explicit ids and/or filters. An empty
// selector matches everything.
type Selector struct {
	IDs           []string
	Where         Where
	WhereDocument WhereDocument
}

// Empty reports whether the selector matches everything.
func (s Selector) Empty() bool {
	return len(s.IDs) == 0 && len(s.Where) == 0 && len(s.WhereDocument) == 0
}
