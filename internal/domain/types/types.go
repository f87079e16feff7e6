package types

// TypeTag names the type of a table field. Values are stored as strings;
// the tag decides which strings are admissible.
type TypeTag string

const (
	TypeInteger      TypeTag = "integer"
	TypeReal         TypeTag = "real"
	TypeChar         TypeTag = "char"
	TypeString       TypeTag = "string"
	TypeDate         TypeTag = "date"
	TypeDateInterval TypeTag = "date_interval"
)

// All lists every supported tag in display order
var All = []TypeTag{
	TypeInteger,
	TypeReal,
	TypeChar,
	TypeString,
	TypeDate,
	TypeDateInterval,
}

// Known reports whether t is one of the supported tags
func (t TypeTag) Known() bool {
	for _, k := range All {
		if t == k {
			return true
		}
	}
	return false
}

func (t TypeTag) String() string {
	return string(t)
}
