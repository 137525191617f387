// Package relation implements the membership sets attached to users,
// posts, comments and stories: likes, views, bookmarks and follows.
package relation

// Toggle removes id from set when present and appends it otherwise. The
// bool reports whether id is a member afterwards. The input is never
// mutated and the result is never nil.
func Toggle[T comparable](set []T, id T) ([]T, bool) {
	out := make([]T, 0, len(set)+1)
	found := false
	for _, v := range set {
		if v == id {
			found = true
			continue
		}
		out = append(out, v)
	}
	if found {
		return out, false
	}
	return append(out, id), true
}

// AddIfAbsent appends id unless it is already a member. The bool reports
// whether the set changed.
func AddIfAbsent[T comparable](set []T, id T) ([]T, bool) {
	out := make([]T, len(set), len(set)+1)
	copy(out, set)
	if Contains(set, id) {
		return out, false
	}
	return append(out, id), true
}

// Remove drops every occurrence of id. The bool reports whether the set changed.
func Remove[T comparable](set []T, id T) ([]T, bool) {
	out := make([]T, 0, len(set))
	for _, v := range set {
		if v != id {
			out = append(out, v)
		}
	}
	return out, len(out) != len(set)
}

// Contains reports whether id is in set.
func Contains[T comparable](set []T, id T) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}
