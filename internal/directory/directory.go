// Package directory holds the user directory and the accreditation cycle
// registry. Both are loaded once at startup and are read-only afterwards.
package directory

import (
	"fmt"

	"github.com/jonathan/accreditrack/internal/types"
)

// UserRecord is a directory user together with its bcrypt credential hash.
type UserRecord struct {
	User         types.User
	PasswordHash string
}

// Directory answers identity lookups for users and cycles.
type Directory struct {
	users      map[string]UserRecord
	userOrder  []string
	cycles     map[int]types.Cycle
	cycleOrder []int
}

// New builds a directory from already-hashed user records and cycles.
func New(users []UserRecord, cycles []types.Cycle) (*Directory, error) {
	d := &Directory{
		users:  make(map[string]UserRecord, len(users)),
		cycles: make(map[int]types.Cycle, len(cycles)),
	}

	for _, u := range users {
		if u.User.ID == "" {
			return nil, fmt.Errorf("directory: user with empty id")
		}
		if !u.User.Role.Valid() {
			return nil, fmt.Errorf("directory: user %s has unknown role %q", u.User.ID, u.User.Role)
		}
		if u.PasswordHash == "" {
			return nil, fmt.Errorf("directory: user %s has no credential", u.User.ID)
		}
		if _, dup := d.users[u.User.ID]; dup {
			return nil, fmt.Errorf("directory: duplicate user id %s", u.User.ID)
		}
		d.users[u.User.ID] = u
		d.userOrder = append(d.userOrder, u.User.ID)
	}

	for _, c := range cycles {
		if _, dup := d.cycles[c.ID]; dup {
			return nil, fmt.Errorf("directory: duplicate cycle id %d", c.ID)
		}
		d.cycles[c.ID] = c
		d.cycleOrder = append(d.cycleOrder, c.ID)
	}

	return d, nil
}

// LookupUser returns the user with the given identity.
func (d *Directory) LookupUser(id string) (types.User, bool) {
	rec, ok := d.users[id]
	return rec.User, ok
}

// Credential returns the user and its stored password hash.
func (d *Directory) Credential(id string) (types.User, string, bool) {
	rec, ok := d.users[id]
	return rec.User, rec.PasswordHash, ok
}

// Users returns every user in load order.
func (d *Directory) Users() []types.User {
	out := make([]types.User, 0, len(d.userOrder))
	for _, id := range d.userOrder {
		out = append(out, d.users[id].User)
	}
	return out
}

// LookupCycle returns the cycle with the given identity.
func (d *Directory) LookupCycle(id int) (types.Cycle, bool) {
	c, ok := d.cycles[id]
	return c, ok
}

// CycleExists reports whether a cycle with the given identity is registered.
func (d *Directory) CycleExists(id int) bool {
	_, ok := d.cycles[id]
	return ok
}

// Cycles returns every cycle in load order.
func (d *Directory) Cycles() []types.Cycle {
	out := make([]types.Cycle, 0, len(d.cycleOrder))
	for _, id := range d.cycleOrder {
		out = append(out, d.cycles[id])
	}
	return out
}
