package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Test struct with validation tags
type TestRequest struct {
	Name     string   `json:"name" validate:"required"`
	Price    *float64 `json:"price" validate:"omitnil,gte=0"`
	Category string   `json:"category" validate:"required"`
}

func decodeMap(t *testing.T, body map[string]any) error {
	t.Helper()
	reqBody, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")

	var testReq TestRequest
	return DecodeAndValidate(req, &testReq)
}

// Property 3: Required field validation works
func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includeCategory bool) bool {
			reqMap := make(map[string]any)
			if includeName {
				reqMap["name"] = "Blue Hat"
			}
			if includeCategory {
				reqMap["category"] = "Hats"
			}

			err := decodeMap(t, reqMap)
			if includeName && includeCategory {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Property 4: Optional prices are only checked when present
func TestProperty_PriceRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative prices are rejected", prop.ForAll(
		func(price float64) bool {
			err := decodeMap(t, map[string]any{"name": "Blue Hat", "category": "Hats", "price": price})
			if price >= 0 {
				return err == nil
			}
			return err != nil
		},
		gen.Float64Range(-100, 100),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

func TestErrorMessage(t *testing.T) {
	err := decodeMap(t, map[string]any{"price": -1})
	if err == nil {
		t.Fatal("expected a validation error")
	}

	fields := FormatValidationErrors(err)
	if len(fields) != 3 {
		t.Fatalf("expected 3 field errors, got %+v", fields)
	}

	msg := ErrorMessage(err)
	for _, want := range []string{"name: This field is required", "price: Value must be greater than or equal to 0", "category: This field is required"} {
		if !strings.Contains(msg, want) {
			t.Errorf("message %q does not contain %q", msg, want)
		}
	}
}

func TestErrorMessage_MalformedBody(t *testing.T) {
	req := httptest.NewRequest("POST", "/test", strings.NewReader("{"))

	var testReq TestRequest
	err := DecodeAndValidate(req, &testReq)
	if err == nil {
		t.Fatal("expected a decode error")
	}
	if got := ErrorMessage(err); !strings.HasPrefix(got, "invalid request body") {
		t.Errorf("unexpected message %q", got)
	}
}
