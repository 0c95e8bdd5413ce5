package issues

import "strings"

type idSet map[int64]struct{}

// searchIndex maps an encoded filter key to the ids of matching issues.
type searchIndex map[string]idSet

func categoryKey(name string) string {
	return "category:" + strings.ToLower(name)
}

// add records id under key and reports whether it was not already there.
func (idx searchIndex) add(key string, id int64) bool {
	set, ok := idx[key]
	if !ok {
		set = make(idSet)
		idx[key] = set
	}
	if _, dup := set[id]; dup {
		return false
	}
	set[id] = struct{}{}
	return true
}

func (idx searchIndex) remove(key string, id int64) {
	set, ok := idx[key]
	if !ok {
		return
	}
	delete(set, id)
	if len(set) == 0 {
		delete(idx, key)
	}
}

// lookup returns the ids listed under key; unknown keys yield an empty set.
func (idx searchIndex) lookup(key string) idSet {
	if set, ok := idx[key]; ok {
		return set
	}
	return idSet{}
}

func (s idSet) has(id int64) bool {
	_, ok := s[id]
	return ok
}

// intersect returns the ids present in both a and b, walking the smaller set.
func intersect(a, b idSet) idSet {
	if len(b) < len(a) {
		a, b = b, a
	}
	out := make(idSet, len(a))
	for id := range a {
		if b.has(id) {
			out[id] = struct{}{}
		}
	}
	return out
}
