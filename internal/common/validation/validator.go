package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
)

var phoneRegex = regexp.MustCompile(fmt.Sprintf(`^\d{%d,%d}$`, constants.PhoneMinDigits, constants.PhoneMaxDigits))

type RegistrationInput struct {
	Username string `json:"username" validate:"required,min=3,max=32"`
	Email    string `json:"email" validate:"required,max=254,email"`
	Password string `json:"password" validate:"required,min=6,max=72,bcryptlen"`
	Phone    string `json:"phone" validate:"required,phone"`
	DOB      string `json:"dob" validate:"required,isodate,notfuture"`
}

type ProfileInput struct {
	Email string `json:"email" validate:"required,max=254,email"`
	Phone string `json:"phone" validate:"required,phone"`
	DOB   string `json:"dob" validate:"required,isodate,notfuture"`
}

type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Validator runs the declarative field rules and reports every failing field.
// It holds no request state and is safe for concurrent use.
type Validator struct {
	validate *validator.Validate
	clock    clock.Clock
}

func New(clk clock.Clock) *Validator {
	if clk == nil {
		clk = clock.NewRealClock()
	}

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phoneRegex.MatchString(fl.Field().String())
	})
	// bcrypt rejects inputs longer than 72 bytes; max counts runes.
	_ = v.RegisterValidation("bcryptlen", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= constants.PasswordMaxBytes
	})
	_ = v.RegisterValidation("isodate", func(fl validator.FieldLevel) bool {
		_, err := ParseDate(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("notfuture", func(fl validator.FieldLevel) bool {
		d, err := ParseDate(fl.Field().String())
		if err != nil {
			// reported by isodate
			return true
		}
		now := clk.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return !d.After(today)
	})

	return &Validator{validate: v, clock: clk}
}

func (v *Validator) ValidateRegistration(in RegistrationInput) []commonerrors.FieldError {
	return v.run(in)
}

func (v *Validator) ValidateProfile(in ProfileInput) []commonerrors.FieldError {
	return v.run(in)
}

func (v *Validator) ValidateLogin(in LoginInput) []commonerrors.FieldError {
	return v.run(in)
}

// Error wraps field errors into a ValidationError, or returns nil when there are none.
func Error(fields []commonerrors.FieldError) error {
	if len(fields) == 0 {
		return nil
	}
	return commonerrors.NewValidationError(fields)
}

func (v *Validator) run(s any) []commonerrors.FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []commonerrors.FieldError{{Field: "", Message: err.Error()}}
	}

	fields := make([]commonerrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, commonerrors.FieldError{
			Field:   fe.Field(),
			Message: message(fe),
		})
	}
	return fields
}

func message(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "phone":
		return fmt.Sprintf("%s must contain %d to %d digits", field, constants.PhoneMinDigits, constants.PhoneMaxDigits)
	case "isodate":
		return field + " must be a valid ISO 8601 date"
	case "notfuture":
		return field + " must not be in the future"
	case "bcryptlen":
		return fmt.Sprintf("%s must be at most %d bytes", field, constants.PasswordMaxBytes)
	case "min", "max":
		switch field {
		case "username":
			return fmt.Sprintf("username must be between %d and %d characters", constants.UsernameMinLength, constants.UsernameMaxLength)
		case "password":
			return fmt.Sprintf("password must be between %d and %d characters", constants.PasswordMinLength, constants.PasswordMaxLength)
		}
		if fe.Tag() == "min" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}
