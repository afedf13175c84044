package models

import (
	"github.com/go-playground/validator/v10"
)

var formValidator = validator.New()

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (f *LoginForm) Validate() error {
	return formValidator.Struct(f)
}

type SignupForm struct {
	FirstName    string `json:"firstName" form:"firstName" validate:"required"`
	LastName     string `json:"lastName" form:"lastName" validate:"required"`
	Email        string `json:"email" form:"email" validate:"required,email"`
	MobileNumber string `json:"mobileNumber" form:"mobileNumber" validate:"required,len=10,numeric"`
	Password     string `json:"password" form:"password" validate:"required,min=6"`
}

func (f *SignupForm) Validate() error {
	return formValidator.Struct(f)
}

// FormErrorMessage turns the first validator failure into the message shown to the user.
func FormErrorMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return "Please check your input."
	}
	fe := verrs[0]
	switch {
	case fe.Tag() == "required":
		return "Please fill in all fields."
	case fe.Field() == "Email":
		return "Please enter a valid email address."
	case fe.Field() == "MobileNumber":
		return "Please enter a valid 10-digit mobile number."
	case fe.Field() == "Password":
		return "Password must be at least 6 characters long."
	default:
		return "Please check the " + fe.Field() + " field."
	}
}
