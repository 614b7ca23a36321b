// Package contact defines the address book entry and its on-disk encoding.
package contact

// Record is one address book entry. It has no identity of its own; a
// record is addressed by its position in the store.
//
// Record performs no validation. Callers decide whether empty fields are
// acceptable.
type Record struct {
	Name        string
	PhoneNumber string
	Email       string
}

// New returns a Record holding exactly the given values.
func New(name, phoneNumber, email string) Record {
	return Record{Name: name, PhoneNumber: phoneNumber, Email: email}
}

// String renders the record as "name - phone - email".
func (r Record) String() string {
	return r.Name + " - " + r.PhoneNumber + " - " + r.Email
}

// Equal reports whether r and other hold the same field values.
func (r Record) Equal(other Record) bool {
	return r == other
}
