// Package ports holds the interfaces the layers meet at. HTTP handlers call
// TodoService and HealthRegistry; the application calls TodoStore, which
// each persistence adapter implements.
package ports
