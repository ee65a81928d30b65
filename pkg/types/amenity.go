package types

// Amenity is a feature a place can offer (wifi, pool...).
type Amenity struct {
	BaseModel
	Name string `json:"name" validate:"required"`
}

func (a *Amenity) ClassName() string { return ClassAmenity }
func (a *Amenity) String() string    { return Format(a) }

func (a *Amenity) Fields() []Field {
	return []Field{{"name", &a.Name}}
}
