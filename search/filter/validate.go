package filter

import "github.com/rotisserie/eris"

var ErrEmptyComponentList = eris.New("filter must name at least one component")

// Validate rejects filters built over an empty component list. Asking for
// "entities with components {}" is a programming error; callers that want
// every entity use All.
func Validate(f ComponentFilter) error {
	if f == nil {
		return eris.New("filter must not be nil")
	}
	switch v := f.(type) {
	case contains:
		if len(v.components) == 0 {
			return eris.Wrap(ErrEmptyComponentList, "Contains")
		}
	case exact:
		if len(v.components) == 0 {
			return eris.Wrap(ErrEmptyComponentList, "Exact")
		}
	case and:
		for _, sub := range v.filters {
			if err := Validate(sub); err != nil {
				return err
			}
		}
	case or:
		for _, sub := range v.filters {
			if err := Validate(sub); err != nil {
				return err
			}
		}
	case not:
		return Validate(v.filter)
	}
	return nil
}
