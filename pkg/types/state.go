package types

// State groups cities. Use storage.CitiesOf to list them.
type State struct {
	BaseModel
	Name string `json:"name" validate:"required"`
}

func (s *State) ClassName() string { return ClassState }
func (s *State) String() string    { return Format(s) }

func (s *State) Fields() []Field {
	return []Field{{"name", &s.Name}}
}
