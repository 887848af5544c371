package domain

import "time"

type Profile struct {
	ID          int64     `json:"id" msgpack:"id"`
	Email       string    `json:"email" msgpack:"email"`
	FirstName   string    `json:"firstName" msgpack:"first_name"`
	LastName    string    `json:"lastName" msgpack:"last_name"`
	PhoneNumber string    `json:"phoneNumber" msgpack:"phone_number"`
	Gender      string    `json:"gender,omitempty" msgpack:"gender"`
	UserType    string    `json:"userType,omitempty" msgpack:"user_type"`
	CreatedAt   time.Time `json:"createdAt,omitzero" msgpack:"created_at"`
}

type ProfileUpdate struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}

type SignUp struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
}
