package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dealerhub/dealerhub-backend/pkg/enums"
	pkgerrors "github.com/dealerhub/dealerhub-backend/pkg/errors"
)

func TestParseCarListQuery(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet,
		"/cars?search=aqua&status=available&transmission=automatic&fuel=hybrid&year_from=2018&price_to=15000&sort_by=price&sort_direction=desc&page=2&per_page=25",
		nil)

	query, err := parseCarListQuery(req)
	if err != nil {
		t.Fatalf("parse query: %v", err)
	}

	if query.Search != "aqua" {
		t.Fatalf("expected search aqua got %q", query.Search)
	}
	if query.Status == nil || *query.Status != enums.CarStatusAvailable {
		t.Fatalf("expected status available got %v", query.Status)
	}
	if query.Transmission == nil || *query.Transmission != enums.TransmissionAutomatic {
		t.Fatalf("expected automatic transmission got %v", query.Transmission)
	}
	if query.Fuel == nil || *query.Fuel != enums.FuelTypeHybrid {
		t.Fatalf("expected hybrid fuel got %v", query.Fuel)
	}
	if query.YearFrom == nil || *query.YearFrom != 2018 {
		t.Fatalf("expected year_from 2018 got %v", query.YearFrom)
	}
	if query.PriceTo == nil || !query.PriceTo.Equal(decimal.NewFromInt(15000)) {
		t.Fatalf("expected price_to 15000 got %v", query.PriceTo)
	}
	if query.SortBy != "price" || query.SortDirection != enums.SortDesc {
		t.Fatalf("expected price desc got %q %q", query.SortBy, query.SortDirection)
	}
	if query.Pagination.Page != 2 || query.Pagination.PerPage != 25 {
		t.Fatalf("unexpected pagination %+v", query.Pagination)
	}
}

func TestParseCarListQueryRejectsUnknownEnum(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cars?status=vaporized", nil)

	_, err := parseCarListQuery(req)
	if err == nil {
		t.Fatal("expected error for unknown status")
	}

	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected string details, got %T", appErr.Details())
	}
	if details["status"] != "has an unsupported value" {
		t.Fatalf("unexpected detail %q", details["status"])
	}
}

func TestParseCarListQueryRejectsBadPage(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cars?page=0", nil)
	if _, err := parseCarListQuery(req); err == nil {
		t.Fatal("expected error for page 0")
	}
}

func TestCarPayloadToInput(t *testing.T) {
	transmission := "cvt"
	steering := "right"
	payload := carPayload{
		Make:         "Toyota",
		Model:        "Aqua",
		PriceAmount:  decimal.NewFromInt(12500),
		Currency:     "JPY",
		Transmission: &transmission,
		Steering:     &steering,
		Status:       "available",
		Photos: []carPhotoPayload{
			{URL: "https://img.example.com/front.jpg", IsPrimary: true},
		},
		Details: []carDetailPayload{
			{ShortTitle: "Interior", SubDetails: []carSubDetailPayload{{Title: "Seats"}}},
		},
	}

	input, err := payload.toInput()
	if err != nil {
		t.Fatalf("to input: %v", err)
	}
	if input.Transmission == nil || *input.Transmission != enums.TransmissionCVT {
		t.Fatalf("expected cvt got %v", input.Transmission)
	}
	if input.Steering == nil || *input.Steering != enums.SteeringSideRight {
		t.Fatalf("expected right steering got %v", input.Steering)
	}
	if input.Status != enums.CarStatusAvailable {
		t.Fatalf("expected available got %v", input.Status)
	}
	if len(input.Photos) != 1 || !input.Photos[0].IsPrimary {
		t.Fatalf("unexpected photos %+v", input.Photos)
	}
	if len(input.Details) != 1 || len(input.Details[0].SubDetails) != 1 {
		t.Fatalf("unexpected details %+v", input.Details)
	}
}

func TestCarPayloadToInputCollectsEnumProblems(t *testing.T) {
	transmission := "hovercraft"
	fuel := "plutonium"
	payload := carPayload{
		Make:         "Toyota",
		Model:        "Aqua",
		Transmission: &transmission,
		Fuel:         &fuel,
		Status:       "melted",
	}

	_, err := payload.toInput()
	if err == nil {
		t.Fatal("expected validation error")
	}

	appErr := pkgerrors.As(err)
	if appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	details, ok := appErr.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected string details, got %T", appErr.Details())
	}
	for _, field := range []string{"transmission", "fuel", "status"} {
		if details[field] == "" {
			t.Fatalf("expected problem for %s, got %v", field, details)
		}
	}
}
