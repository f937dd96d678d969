package validator

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/kinohall/booking-system/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	ErrRequired   = "is required"
	ErrMinValue   = "must be at least %s"
	ErrMaxValue   = "must be at most %s"
	ErrEmail      = "must be a valid email address"
	ErrDatetime   = "must match the format %s"
	ErrSeatType   = "must be either 'standard', 'vip' or 'disabled'"
	ErrPrice      = "must be a positive amount"
	ErrOneOfValue = "must be one of: %s"
)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterValidation("seat_type", validateSeatType)
	validator.RegisterValidation("price", validatePrice)

	return validator
}

func validateSeatType(fl validator.FieldLevel) bool {
	return domain.SeatType(fl.Field().String()).Valid()
}

func validatePrice(fl validator.FieldLevel) bool {
	price, ok := fl.Field().Interface().(decimal.Decimal)
	if !ok {
		return false
	}

	return price.IsPositive()
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return ErrRequired
	case "email":
		return ErrEmail
	case "min", "gte":
		return fmt.Sprintf(ErrMinValue, err.Param())
	case "max", "lte":
		return fmt.Sprintf(ErrMaxValue, err.Param())
	case "datetime":
		return fmt.Sprintf(ErrDatetime, err.Param())
	case "oneof":
		return fmt.Sprintf(ErrOneOfValue, err.Param())
	case "seat_type":
		return ErrSeatType
	case "price":
		return ErrPrice
	default:
		return "is invalid"
	}
}
