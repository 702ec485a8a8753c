package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/payment-orchestrator/internal/domain"
	"github.com/shopspring/decimal"
)

// maxAmount keeps amounts inside the numeric range every gateway accepts.
var maxAmount = decimal.NewFromInt(100_000_000_000)

func NewValidator() *validator.Validate {
	validator := validator.New(validator.WithRequiredStructEnabled())

	validator.RegisterTagNameFunc(jsonFieldName)
	validator.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})

	validator.RegisterValidation("payment_method", validatePaymentMethod)
	validator.RegisterValidation("vnd_amount", validateAmount)

	return validator
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" || name == "" {
		return field.Name
	}

	return name
}

// decimalValue lets string-based rules run against decimal fields.
func decimalValue(field reflect.Value) any {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		return d.String()
	}

	return nil
}

func validatePaymentMethod(fl validator.FieldLevel) bool {
	_, err := domain.ParsePaymentMethod(fl.Field().String())

	return err == nil
}

// validateAmount accepts positive whole amounts of VND, which has no minor unit.
func validateAmount(fl validator.FieldLevel) bool {
	amount, err := decimal.NewFromString(fl.Field().String())
	if err != nil {
		return false
	}

	return amount.IsPositive() && amount.IsInteger() && amount.LessThanOrEqual(maxAmount)
}

// ValidationMessage converts validator errors into readable messages
func ValidationMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters long", err.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters long", err.Param())
	case "payment_method":
		return "must be one of VNPAY, MOMO, VIETQR, PAYOS"
	case "vnd_amount":
		return "must be a positive whole number of VND"
	case "ip":
		return "must be a valid IP address"
	default:
		return "is invalid"
	}
}

// ToDomain converts the result of Struct into a *domain.ValidationError.
// Other errors are returned unchanged.
func ToDomain(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	out := &domain.ValidationError{}
	for _, fieldErr := range validationErrs {
		out.Add(fieldErr.Field(), ValidationMessage(fieldErr))
	}

	return out
}
