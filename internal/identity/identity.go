// Package identity resolves user and group identities for ownership predicates
// and listing output. Lookups are read-only and cached for the lifetime of a run.
package identity

import (
	"math"
	"os/user"
	"strconv"
	"strings"
	"sync"
)

// Resolver looks up account database entries
type Resolver interface {
	// LookupUserName resolves a login name to its uid
	LookupUserName(name string) (uint32, bool)

	// LookupUserID resolves a uid to its login name
	LookupUserID(uid uint32) (string, bool)

	// LookupGroupID resolves a gid to its group name
	LookupGroupID(gid uint32) (string, bool)
}

type nameResult struct {
	name string
	ok   bool
}

type idResult struct {
	id uint32
	ok bool
}

// System resolves identities through os/user with a per-instance cache
type System struct {
	mu     sync.Mutex
	byName map[string]idResult
	byUID  map[uint32]nameResult
	byGID  map[uint32]nameResult
}

// NewSystem creates a resolver backed by the system account database
func NewSystem() *System {
	return &System{
		byName: make(map[string]idResult),
		byUID:  make(map[uint32]nameResult),
		byGID:  make(map[uint32]nameResult),
	}
}

// LookupUserName resolves a login name to its uid
func (s *System) LookupUserName(name string) (uint32, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byName[name]; ok {
		return r.id, r.ok
	}

	var r idResult
	if u, err := user.Lookup(name); err == nil {
		if id, err := strconv.ParseUint(u.Uid, 10, 32); err == nil {
			r = idResult{id: uint32(id), ok: true}
		}
	}
	s.byName[name] = r
	return r.id, r.ok
}

// LookupUserID resolves a uid to its login name
func (s *System) LookupUserID(uid uint32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byUID[uid]; ok {
		return r.name, r.ok
	}

	var r nameResult
	if u, err := user.LookupId(strconv.FormatUint(uint64(uid), 10)); err == nil {
		r = nameResult{name: u.Username, ok: true}
	}
	s.byUID[uid] = r
	return r.name, r.ok
}

// LookupGroupID resolves a gid to its group name
func (s *System) LookupGroupID(gid uint32) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r, ok := s.byGID[gid]; ok {
		return r.name, r.ok
	}

	var r nameResult
	if g, err := user.LookupGroupId(strconv.FormatUint(uint64(gid), 10)); err == nil {
		r = nameResult{name: g.Name, ok: true}
	}
	s.byGID[gid] = r
	return r.name, r.ok
}

// UserExists reports whether identifier names a known account.
// With searchUID set, the leading integer of identifier is also tried as
// a uid; uid 0 and out-of-range numbers never count as found that way.
func UserExists(r Resolver, identifier string, searchUID bool) bool {
	if _, ok := r.LookupUserName(identifier); ok {
		return true
	}
	if !searchUID {
		return false
	}

	n, _, overflow := parseLeadingInt(identifier)
	if overflow || uint32(n) == 0 {
		return false
	}
	_, ok := r.LookupUserID(uint32(n))
	return ok
}

// ParseUID reads identifier as a decimal uid the way strtol(3) does:
// leading white space and a sign are allowed, a negative number wraps
// around, an out-of-range one saturates, and "" reads as 0. ok is false
// when anything but the number is left over.
func ParseUID(identifier string) (uid uint32, ok bool) {
	n, rest, _ := parseLeadingInt(identifier)
	return uint32(n), rest == ""
}

// parseLeadingInt is strtol(s, &end, 10) for a 64-bit long
func parseLeadingInt(s string) (n int64, rest string, overflow bool) {
	i := 0
	for i < len(s) && strings.IndexByte(" \t\n\v\f\r", s[i]) >= 0 {
		i++
	}
	start := i
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := i
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	if i == digits {
		return 0, s, false
	}

	n, err := strconv.ParseInt(s[start:i], 10, 64)
	if err != nil {
		overflow = true
		if s[start] == '-' {
			n = math.MinInt64
		} else {
			n = math.MaxInt64
		}
	}
	return n, s[i:], overflow
}

// Static is an in-memory Resolver, used when the account database
// must not be consulted (tests, reproducible listings)
type Static struct {
	Users  map[uint32]string
	Groups map[uint32]string
}

// LookupUserName resolves a login name to its uid
func (s Static) LookupUserName(name string) (uint32, bool) {
	for id, n := range s.Users {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

// LookupUserID resolves a uid to its login name
func (s Static) LookupUserID(uid uint32) (string, bool) {
	name, ok := s.Users[uid]
	return name, ok
}

// LookupGroupID resolves a gid to its group name
func (s Static) LookupGroupID(gid uint32) (string, bool) {
	name, ok := s.Groups[gid]
	return name, ok
}
