package types

// City belongs to one State through StateID.
type City struct {
	BaseModel
	Name    string `json:"name" validate:"required"`
	StateID string `json:"state_id" validate:"required"`
}

func (c *City) ClassName() string { return ClassCity }
func (c *City) String() string    { return Format(c) }

func (c *City) Fields() []Field {
	return []Field{
		{"name", &c.Name},
		{"state_id", &c.StateID},
	}
}
