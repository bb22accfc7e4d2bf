// Package contact holds the in-memory contact store.
package contact

// Person is a single contact record.
type Person struct {
	Name    string
	Email   string
	Phone   string
	Address string
	Age     int
}

// Field names a searchable Person field.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldAddress Field = "address"
)

// Fields lists the searchable fields in display order.
var Fields = []Field{FieldName, FieldEmail, FieldPhone, FieldAddress}

// ParseField reports whether s names a searchable field. Names are matched
// exactly: "Name" and " name" are unknown fields. The Field is returned either
// way so callers can still search with it; an unknown field matches nothing.
func ParseField(s string) (Field, bool) {
	f := Field(s)
	switch f {
	case FieldName, FieldEmail, FieldPhone, FieldAddress:
		return f, true
	}
	return f, false
}

// Value returns the Person's value for field f and whether f is searchable.
func (p Person) Value(f Field) (string, bool) {
	switch f {
	case FieldName:
		return p.Name, true
	case FieldEmail:
		return p.Email, true
	case FieldPhone:
		return p.Phone, true
	case FieldAddress:
		return p.Address, true
	}
	return "", false
}

// Store is an ordered collection of contacts. Insertion order is listing order.
// A Store is owned by a single caller and is not safe for concurrent use.
type Store struct {
	people []Person
}

// NewStore returns a Store holding a copy of people, in order.
func NewStore(people ...Person) *Store {
	s := &Store{}
	s.ReplaceAll(people)
	return s
}

// Add appends p. Field contents are not validated.
func (s *Store) Add(p Person) {
	s.people = append(s.people, p)
}

// All returns every contact in insertion order. The slice is a copy.
func (s *Store) All() []Person {
	return append([]Person(nil), s.people...)
}

// Len returns the number of contacts.
func (s *Store) Len() int {
	return len(s.people)
}

// Search returns contacts whose field exactly equals value, in insertion order.
// An unrecognized field yields no matches.
func (s *Store) Search(field Field, value string) []Person {
	var matches []Person
	for _, p := range s.people {
		if v, ok := p.Value(field); ok && v == value {
			matches = append(matches, p)
		}
	}
	return matches
}

// ReplaceAll discards the current contents and stores a copy of people.
func (s *Store) ReplaceAll(people []Person) {
	s.people = append([]Person(nil), people...)
}
