package validate_test

import (
	"testing"

	"github.com/freshmandi/freshmandi/pkg/validate"
)

type registerInput struct {
	Name         string `json:"name"          validate:"required,min=2,max=100"`
	Email        string `json:"email"         validate:"required,email"`
	Password     string `json:"password"      validate:"required,min=6"`
	Role         string `json:"role"          validate:"required,in=client,farmer"`
	Phone        string `json:"phone"         validate:"nullable,digits=10"`
	DeliveryArea string `json:"delivery_area" validate:"nullable,max=120"`
}

type createProductInput struct {
	Name     string  `json:"name"     validate:"required,min=2,max=100"`
	Category string  `json:"category" validate:"required,in=Vegetables,Fruits,Dairy,Grains,Others"`
	Price    float64 `json:"price"    validate:"required,gt=0"`
	Quantity int     `json:"quantity" validate:"required,integer,gte=0"`
	Unit     string  `json:"unit"     validate:"required,max=20"`
	Rating   float64 `json:"rating"   validate:"nullable,between=0,5"`
}

func TestValidRegisterInput(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name:     "Ravi Kumar",
		Email:    "ravi@freshmandi.in",
		Password: "secret123",
		Role:     "farmer",
		Phone:    "9876543210",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(registerInput{})
	if !validate.HasErrors(errs) {
		t.Fatal("expected required errors")
	}
	for _, field := range []string{"name", "email", "password", "role"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required", field)
		}
	}
	if _, ok := errs["phone"]; ok {
		t.Error("nullable phone should not error when empty")
	}
}

func TestEmailRule(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name: "Ravi", Email: "not-an-email", Password: "secret123", Role: "client",
	})
	if _, ok := errs["email"]; !ok {
		t.Error("expected email validation error")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name: "Ravi", Email: "ravi@freshmandi.in", Password: "secret123", Role: "admin",
	})
	if _, ok := errs["role"]; !ok {
		t.Error("expected role to reject values outside client,farmer")
	}

	errs = validate.Struct(createProductInput{
		Name: "Tomatoes", Category: "Meat", Price: 25, Quantity: 50, Unit: "kg",
	})
	if _, ok := errs["category"]; !ok {
		t.Error("expected category to reject values outside the allowed set")
	}
}

func TestInRuleFollowedByAnotherRule(t *testing.T) {
	type in struct {
		Role string `json:"role" validate:"required,in=client,farmer,max=10"`
	}
	errs := validate.Struct(in{Role: "farmer"})
	if validate.HasErrors(errs) {
		t.Errorf("in= followed by max= should parse: %v", errs)
	}
	errs = validate.Struct(in{Role: "vendor"})
	if _, ok := errs["role"]; !ok {
		t.Error("expected vendor to be rejected")
	}
}

func TestNumericBounds(t *testing.T) {
	errs := validate.Struct(createProductInput{
		Name: "Tomatoes", Category: "Vegetables", Price: 0, Quantity: 50, Unit: "kg",
	})
	if _, ok := errs["price"]; !ok {
		t.Error("expected price to be required (zero value)")
	}

	errs = validate.Struct(createProductInput{
		Name: "Tomatoes", Category: "Vegetables", Price: -5, Quantity: 50, Unit: "kg",
	})
	if _, ok := errs["price"]; !ok {
		t.Error("expected gt=0 to reject negative price")
	}

	errs = validate.Struct(createProductInput{
		Name: "Tomatoes", Category: "Vegetables", Price: 25, Quantity: 50, Unit: "kg", Rating: 7,
	})
	if _, ok := errs["rating"]; !ok {
		t.Error("expected between=0,5 to reject rating 7")
	}
}

func TestDigitsRule(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name: "Ravi", Email: "ravi@freshmandi.in", Password: "secret123", Role: "client",
		Phone: "98765",
	})
	if _, ok := errs["phone"]; !ok {
		t.Error("expected digits=10 to reject short phone")
	}

	errs = validate.Struct(registerInput{
		Name: "Ravi", Email: "ravi@freshmandi.in", Password: "secret123", Role: "client",
		Phone: "98765abcde",
	})
	if _, ok := errs["phone"]; !ok {
		t.Error("expected digits=10 to reject non-digit phone")
	}
}

func TestStringLengthRules(t *testing.T) {
	errs := validate.Struct(registerInput{
		Name: "R", Email: "ravi@freshmandi.in", Password: "secret123", Role: "client",
	})
	if _, ok := errs["name"]; !ok {
		t.Error("expected min=2 to reject single-char name")
	}

	errs = validate.Struct(registerInput{
		Name: "Ravi", Email: "ravi@freshmandi.in", Password: "short", Role: "client",
	})
	if _, ok := errs["password"]; !ok {
		t.Error("expected min=6 to reject short password")
	}
}
