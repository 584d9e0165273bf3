// Package core defines the shared vocabulary of the pipeline: roles,
// assignments, capabilities, and run identity.
package core

// Role describes a specialized persona that executes staged work.
// A role is immutable after construction and carries at most a small
// set of side-effecting capabilities. It holds no reference to an
// inference backend; binding a role to a backend is the executor's job.
type Role struct {
	Name      string
	Objective string
	Backstory string
	Tools     []Tool
}

// Tool returns the named capability, if the role carries it.
func (r *Role) Tool(name string) (Tool, bool) {
	for _, t := range r.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// HasTools reports whether the role carries any capability at all.
// A role built without its capability still runs; its stage degrades
// to whatever the model can produce unaided.
func (r *Role) HasTools() bool {
	return len(r.Tools) > 0
}
