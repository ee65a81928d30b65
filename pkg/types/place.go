package types

// Place is a rental listing. It belongs to a City and a User, has many
// Reviews, and links to Amenities by identifier.
type Place struct {
	BaseModel
	CityID          string   `json:"city_id" validate:"required"`
	UserID          string   `json:"user_id" validate:"required"`
	Name            string   `json:"name" validate:"required"`
	Description     string   `json:"description"`
	NumberRooms     int      `json:"number_rooms" validate:"gte=0"`
	NumberBathrooms int      `json:"number_bathrooms" validate:"gte=0"`
	MaxGuest        int      `json:"max_guest" validate:"gte=0"`
	PriceByNight    int      `json:"price_by_night" validate:"gte=0"`
	Latitude        float64  `json:"latitude" validate:"gte=-90,lte=90"`
	Longitude       float64  `json:"longitude" validate:"gte=-180,lte=180"`
	AmenityIDs      []string `json:"amenity_ids"`
}

func (p *Place) ClassName() string { return ClassPlace }
func (p *Place) String() string    { return Format(p) }

func (p *Place) Fields() []Field {
	return []Field{
		{"city_id", &p.CityID},
		{"user_id", &p.UserID},
		{"name", &p.Name},
		{"description", &p.Description},
		{"number_rooms", &p.NumberRooms},
		{"number_bathrooms", &p.NumberBathrooms},
		{"max_guest", &p.MaxGuest},
		{"price_by_night", &p.PriceByNight},
		{"latitude", &p.Latitude},
		{"longitude", &p.Longitude},
		{"amenity_ids", &p.AmenityIDs},
	}
}

// AddAmenity links an amenity to the place. Adding the same amenity twice
// is a no-op.
func (p *Place) AddAmenity(a *Amenity) {
	for _, id := range p.AmenityIDs {
		if id == a.ID {
			return
		}
	}
	p.AmenityIDs = append(p.AmenityIDs, a.ID)
}
