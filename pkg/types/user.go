package types

// User is an account that owns places and writes reviews.
type User struct {
	BaseModel
	Email     string `json:"email" validate:"required"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (u *User) ClassName() string { return ClassUser }
func (u *User) String() string    { return Format(u) }

func (u *User) Fields() []Field {
	return []Field{
		{"email", &u.Email},
		{"password", &u.Password},
		{"first_name", &u.FirstName},
		{"last_name", &u.LastName},
	}
}
