package auth

import (
	"errors"
	"unicode"
	"unicode/utf8"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// The four recognized input shapes. Validation always runs before any store
// access; a request that fails here is rejected whole.

type SignInInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=50"`
}

type SignUpInput struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=50"`
}

type ResetPasswordInput struct {
	ID              string `json:"id" binding:"required"`
	Password        string `json:"password" binding:"required,strongpassword"`
	ConfirmPassword string `json:"confirmPassword" binding:"required,strongpassword"`
}

type InviteInput struct {
	Name  string `json:"name" binding:"required,min=1,max=70"`
	Email string `json:"email" binding:"required,email"`
}

const strongPasswordMessage = "Password should be minimum eight characters, at least one uppercase letter, one lowercase letter and one number"

// RegisterValidators installs the custom rules on gin's binding engine.
// Call once at startup before any request is served.
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpassword", strongPassword)
	}
}

// strongPassword enforces the reset-password rule: at least 8 characters,
// one lowercase, one uppercase, one digit, one symbol that is neither a
// word character nor whitespace, and no whitespace anywhere.
func strongPassword(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if utf8.RuneCountInString(s) < 8 {
		return false
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			return false
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsDigit(r):
			hasDigit = true
		case r != '_':
			hasSymbol = true
		}
	}
	return hasLower && hasUpper && hasDigit && hasSymbol
}

// FieldErrors flattens a binding error into field-keyed human-readable
// messages for inline rendering under the offending inputs.
func FieldErrors(err error) map[string]string {
	out := map[string]string{}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		out["_"] = "invalid request body"
		return out
	}

	for _, fe := range verrs {
		out[fieldName(fe.Field())] = fieldMessage(fe)
	}
	return out
}

func fieldName(structField string) string {
	switch structField {
	case "Email":
		return "email"
	case "Password":
		return "password"
	case "ConfirmPassword":
		return "confirmPassword"
	case "Name":
		return "name"
	case "ID":
		return "id"
	}
	return structField
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Field() {
	case "Email":
		return "This is not a valid email"
	case "Password", "ConfirmPassword":
		switch fe.Tag() {
		case "strongpassword":
			return strongPasswordMessage
		case "max":
			return "Password too long"
		}
		return "Password too short"
	case "Name":
		if fe.Tag() == "max" {
			return "Name too long"
		}
		return "Name too short"
	}
	return "Invalid value"
}
