package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"

	"github.com/park285/ecofy-server-go/internal/carbon"
)

func newCarbonRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewCarbonHandler(slog.New(slog.DiscardHandler)).RegisterRoutes(router)
	return router
}

func TestCarbonFootprint(t *testing.T) {
	router := newCarbonRouter()

	body := []byte(`{"electricityKwh":300,"gasTherms":20,"carMiles":500,"flights":1,"diet":"vegetarian"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/carbon/footprint", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result carbon.FootprintResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.TotalKg != 733.0 {
		t.Fatalf("expected total 733.0, got %v", result.TotalKg)
	}
}

func TestCarbonFootprintRejectsNegative(t *testing.T) {
	router := newCarbonRouter()

	body := []byte(`{"electricityKwh":-5}`)
	req := httptest.NewRequest(http.MethodPost, "/api/carbon/footprint", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestCarbonTrip(t *testing.T) {
	router := newCarbonRouter()

	body := []byte(`{"mode":"train","distanceKm":100}`)
	req := httptest.NewRequest(http.MethodPost, "/api/carbon/trip", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var result carbon.TripResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if result.EmissionKg != 4.1 {
		t.Fatalf("expected 4.1 kg, got %v", result.EmissionKg)
	}
	if result.SavedVsCar != 15.1 {
		t.Fatalf("expected 15.1 kg saved, got %v", result.SavedVsCar)
	}
}

func TestCarbonTripUnknownMode(t *testing.T) {
	router := newCarbonRouter()

	body := []byte(`{"mode":"rocket","distanceKm":10}`)
	req := httptest.NewRequest(http.MethodPost, "/api/carbon/trip", bytes.NewBuffer(body))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestCarbonModes(t *testing.T) {
	router := newCarbonRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/carbon/modes", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var payload struct {
		Modes []string `json:"modes"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(payload.Modes) != 6 {
		t.Fatalf("expected 6 modes, got %d", len(payload.Modes))
	}
}
