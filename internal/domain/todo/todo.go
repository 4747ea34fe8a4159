// Package todo defines the ToDo entity and the rules that govern how it is
// replaced in place.
package todo

// Todo represents a single to-do item.
type Todo struct {
	ID   string
	Name string
	Done bool
}

// HasID reports whether the todo carries an identifier. Any non-empty ID,
// whitespace included, is the caller's own and is kept as given; stores
// assign a fresh one only when it is empty.
func (t *Todo) HasID() bool {
	return t.ID != ""
}

// ApplyReplacement overwrites the mutable fields (Name and Done) with the
// values from replacement. The receiver's ID is always retained, whatever
// ID the replacement carries.
func (t *Todo) ApplyReplacement(replacement *Todo) {
	t.Name = replacement.Name
	t.Done = replacement.Done
}

// WithID returns a copy of t whose ID is forced to id.
func (t Todo) WithID(id string) Todo {
	t.ID = id
	return t
}
