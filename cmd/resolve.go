package cmd

import (
	"fmt"
	"strings"
)

// resolve finds the one item that ref names: an exact id, a name (ignoring
// case) or a unique id prefix, in that order.
func resolve[T any](items []T, ref, kind string, id, name func(T) string) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("no %s given", kind)
	}

	for _, it := range items {
		if id(it) == ref {
			return it, nil
		}
	}

	if name != nil {
		var byName []T
		for _, it := range items {
			if strings.EqualFold(name(it), ref) {
				byName = append(byName, it)
			}
		}
		switch len(byName) {
		case 1:
			return byName[0], nil
		case 0:
		default:
			return zero, fmt.Errorf("%d %ss are named %q: use the id", len(byName), kind, ref)
		}
	}

	var byPrefix []T
	for _, it := range items {
		if strings.HasPrefix(id(it), ref) {
			byPrefix = append(byPrefix, it)
		}
	}
	switch len(byPrefix) {
	case 1:
		return byPrefix[0], nil
	case 0:
		return zero, fmt.Errorf("no %s matches %q", kind, ref)
	default:
		return zero, fmt.Errorf("%q matches %d %ss: use more of the id", ref, len(byPrefix), kind)
	}
}
