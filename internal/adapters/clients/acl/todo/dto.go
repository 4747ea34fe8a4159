// Package todo implements the Anti-Corruption Layer translators for the
// downstream todo API's /todo resources.
package todo

// TodoDTO matches the downstream ToDo schema. The list endpoint returns a
// bare JSON array of these.
type TodoDTO struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}
