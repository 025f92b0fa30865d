package ir

// Kind describes one concrete node kind of a schema: its properties and the
// indices it maintains. Kind values are fixed for the lifetime of a schema;
// trees hold pointers into the same descriptor set, so kinds compare by
// pointer identity.
type Kind struct {
	Name       string
	Properties []Property
	Indices    []Index
}

// Property describes one property of a kind. A property is either a scalar
// (IsNode false) stored on the node itself, or a child reference realized as
// an Edge. Array properties are ordered collections; Nullable marks a single
// child reference that may be absent and removed.
type Property struct {
	Name     string
	IsNode   bool
	IsArray  bool
	Nullable bool
}

// Index describes a key -> node lookup the kind maintains over one of its
// array-valued edges. Source names the edge; KeyPath walks from each element
// through single child references to the scalar string used as the key.
type Index struct {
	Name    string
	Source  string
	KeyPath []string
}

// Property returns the descriptor for the named property, or nil.
func (k *Kind) Property(name string) *Property {
	for i := range k.Properties {
		if k.Properties[i].Name == name {
			return &k.Properties[i]
		}
	}
	return nil
}

// Index returns the descriptor for the named index, or nil.
func (k *Kind) Index(name string) *Index {
	for i := range k.Indices {
		if k.Indices[i].Name == name {
			return &k.Indices[i]
		}
	}
	return nil
}
