package contact

import (
	"reflect"
	"testing"
)

var (
	ada   = Person{Name: "Ada Lovelace", Email: "ada@example.com", Phone: "555-0100", Address: "1 Analytical Engine Way", Age: 36}
	alan  = Person{Name: "Alan Turing", Email: "alan@example.com", Phone: "555-0101", Address: "Bletchley Park", Age: 41}
	grace = Person{Name: "Grace Hopper", Email: "grace@example.com", Phone: "555-0100", Address: "Arlington", Age: 85}
)

func TestStore_AddThenAll(t *testing.T) {
	// Given: an empty store
	s := NewStore()

	// When: three contacts are added in order
	s.Add(ada)
	s.Add(alan)
	s.Add(grace)

	// Then: All returns them in insertion order
	want := []Person{ada, alan, grace}
	if got := s.All(); !reflect.DeepEqual(got, want) {
		t.Errorf("All() = %+v, want %+v", got, want)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

func TestStore_AllIsIdempotent(t *testing.T) {
	s := NewStore(ada, alan)

	first := s.All()
	second := s.All()

	if !reflect.DeepEqual(first, second) {
		t.Errorf("All() changed between calls: %+v then %+v", first, second)
	}
}

func TestStore_AllReturnsCopy(t *testing.T) {
	// Given: a store with one contact
	s := NewStore(ada)

	// When: the caller mutates the returned slice
	got := s.All()
	got[0].Name = "changed"

	// Then: the store is unaffected
	if s.All()[0].Name != ada.Name {
		t.Errorf("store mutated through All(): name = %q", s.All()[0].Name)
	}
}

func TestStore_AllEmpty(t *testing.T) {
	s := NewStore()
	if got := s.All(); len(got) != 0 {
		t.Errorf("All() on empty store = %+v, want empty", got)
	}
}

func TestStore_AddAcceptsAnything(t *testing.T) {
	s := NewStore()
	odd := Person{Email: "not an email", Age: -4}

	s.Add(odd)

	if got := s.All(); len(got) != 1 || got[0] != odd {
		t.Errorf("All() = %+v, want [%+v]", got, odd)
	}
}

func TestStore_Search(t *testing.T) {
	s := NewStore(ada, alan, grace)

	tests := []struct {
		name  string
		field Field
		value string
		want  []Person
	}{
		{name: "exact name", field: FieldName, value: "Ada Lovelace", want: []Person{ada}},
		{name: "email", field: FieldEmail, value: "alan@example.com", want: []Person{alan}},
		{name: "phone keeps insertion order", field: FieldPhone, value: "555-0100", want: []Person{ada, grace}},
		{name: "address", field: FieldAddress, value: "Arlington", want: []Person{grace}},
		{name: "no match", field: FieldEmail, value: "nobody@nowhere.com", want: nil},
		{name: "case sensitive", field: FieldName, value: "ada lovelace", want: nil},
		{name: "no substring match", field: FieldName, value: "Ada", want: nil},
		{name: "unknown field", field: Field("age"), value: "36", want: nil},
		{name: "empty field", field: Field(""), value: "", want: nil},
		{name: "wrong-case field", field: Field("Name"), value: "Ada Lovelace", want: nil},
		{name: "padded field", field: Field(" name "), value: "Ada Lovelace", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Search(tt.field, tt.value)
			if len(got) != len(tt.want) {
				t.Fatalf("Search(%q, %q) = %+v, want %+v", tt.field, tt.value, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Search(%q, %q)[%d] = %+v, want %+v", tt.field, tt.value, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestStore_SearchEmptyStore(t *testing.T) {
	s := NewStore()
	if got := s.Search(FieldName, "Ada Lovelace"); len(got) != 0 {
		t.Errorf("Search() on empty store = %+v, want empty", got)
	}
}

func TestStore_ReplaceAll(t *testing.T) {
	// Given: a store with two contacts
	s := NewStore(ada, alan)

	// When: the contents are replaced
	replacement := []Person{grace, ada}
	s.ReplaceAll(replacement)

	// Then: the store holds exactly the replacement, in order
	if got := s.All(); !reflect.DeepEqual(got, replacement) {
		t.Errorf("All() = %+v, want %+v", got, replacement)
	}

	// And: later mutation of the argument does not leak in
	replacement[0].Name = "changed"
	if s.All()[0].Name != grace.Name {
		t.Error("ReplaceAll kept a reference to the caller's slice")
	}
}

func TestStore_ReplaceAllEmpty(t *testing.T) {
	s := NewStore(ada)
	s.ReplaceAll(nil)
	if s.Len() != 0 {
		t.Errorf("Len() = %d after ReplaceAll(nil), want 0", s.Len())
	}
}

func TestParseField(t *testing.T) {
	tests := []struct {
		in     string
		want   Field
		wantOK bool
	}{
		{in: "name", want: FieldName, wantOK: true},
		{in: "email", want: FieldEmail, wantOK: true},
		{in: "phone", want: FieldPhone, wantOK: true},
		{in: "Name", want: Field("Name"), wantOK: false},
		{in: " name ", want: Field(" name "), wantOK: false},
		{in: "EMAIL", want: Field("EMAIL"), wantOK: false},
		{in: "address", want: FieldAddress, wantOK: true},
		{in: "age", want: Field("age"), wantOK: false},
		{in: "", want: Field(""), wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseField(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseField(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
