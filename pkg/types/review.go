package types

// Review is a user's comment on a place.
type Review struct {
	BaseModel
	PlaceID string `json:"place_id" validate:"required"`
	UserID  string `json:"user_id" validate:"required"`
	Text    string `json:"text" validate:"required"`
}

func (r *Review) ClassName() string { return ClassReview }
func (r *Review) String() string    { return Format(r) }

func (r *Review) Fields() []Field {
	return []Field{
		{"place_id", &r.PlaceID},
		{"user_id", &r.UserID},
		{"text", &r.Text},
	}
}
