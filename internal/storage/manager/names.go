package manager

import (
	"github.com/leengari/recordstore/internal/domain/errors"
)

const maxNameLength = 64

// reservedNames collide with fixed HTTP routes
var reservedNames = map[string]struct{}{
	"databases":       {},
	"create_database": {},
	"static":          {},
}

// ValidateName checks a database name before it is used as a storage key.
// Names become file names, so path separators and leading dots are
// rejected.
func ValidateName(name string) error {
	if name == "" {
		return errors.NewInvalidArgs("database name is required")
	}
	if len(name) > maxNameLength {
		return errors.NewInvalidArgs("database name %q is longer than %d bytes", name, maxNameLength)
	}
	if name[0] == '.' {
		return errors.NewInvalidArgs("database name %q must not start with a dot", name)
	}
	if _, reserved := reservedNames[name]; reserved {
		return errors.NewInvalidArgs("database name %q is reserved", name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '_', r == '-', r == '.':
		default:
			return errors.NewInvalidArgs("database name %q contains invalid character %q", name, r)
		}
	}
	return nil
}
