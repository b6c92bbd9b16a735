package document

// Entity is an out-of-band annotation, such as a link, bound to character
// ranges by key.
type Entity struct {
	Type       EntityType
	Mutability Mutability
	Data       Data
}

// URL returns the url field of a link entity.
func (e Entity) URL() string {
	return e.Data.String("url")
}
