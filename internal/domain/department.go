package domain

// Department is a named unit with an external link target. ID is assigned by
// the store on creation and never changes afterwards.
type Department struct {
	ID   int64
	Name string
	URL  string
}
