// Package carbon 은 탄소 배출량 계산기를 제공한다. 순수 함수만 있으며 I/O 가 없다.
package carbon

import (
	"fmt"
	"math"
	"strings"
)

// FootprintInput 은 가구 단위 월간 사용량 입력이다.
type FootprintInput struct {
	ElectricityKWh float64 `json:"electricityKwh" binding:"min=0"`
	GasTherms      float64 `json:"gasTherms" binding:"min=0"`
	CarMiles       float64 `json:"carMiles" binding:"min=0"`
	Flights        int     `json:"flights" binding:"min=0"`
	Diet           string  `json:"diet"`
}

// FootprintResult 는 항목별 월간 배출량(kg CO2)이다.
type FootprintResult struct {
	ElectricityKg float64 `json:"electricityKg"`
	GasKg         float64 `json:"gasKg"`
	CarKg         float64 `json:"carKg"`
	FlightsKg     float64 `json:"flightsKg"`
	DietKg        float64 `json:"dietKg"`
	TotalKg       float64 `json:"totalKg"`
}

// 배출 계수. 전기/가스/주행은 사용량당, 항공은 편당, 식단은 월 고정치다.
const (
	electricityKgPerKWh = 0.4
	gasKgPerTherm       = 5.3
	carKgPerMile        = 0.404
	flightKgPerFlight   = 250.0
)

var dietMonthlyKg = map[string]float64{
	"vegan":       40.0,
	"vegetarian":  55.0,
	"pescatarian": 65.0,
	"omnivore":    85.0,
	"heavy_meat":  110.0,
}

// Footprint 는 월간 가구 배출량을 계산한다. 알 수 없는 식단은 omnivore 로 본다.
func Footprint(in FootprintInput) FootprintResult {
	diet, ok := dietMonthlyKg[strings.ToLower(strings.TrimSpace(in.Diet))]
	if !ok {
		diet = dietMonthlyKg["omnivore"]
	}

	r := FootprintResult{
		ElectricityKg: round1(in.ElectricityKWh * electricityKgPerKWh),
		GasKg:         round1(in.GasTherms * gasKgPerTherm),
		CarKg:         round1(in.CarMiles * carKgPerMile),
		FlightsKg:     round1(float64(in.Flights) * flightKgPerFlight),
		DietKg:        diet,
	}
	r.TotalKg = round1(r.ElectricityKg + r.GasKg + r.CarKg + r.FlightsKg + r.DietKg)
	return r
}

// TripInput 은 단일 이동 입력이다.
type TripInput struct {
	Mode       string  `json:"mode" binding:"required"`
	DistanceKm float64 `json:"distanceKm" binding:"min=0"`
}

// TripResult 는 이동 배출량과 자가용 대비 절감량이다.
type TripResult struct {
	Mode       string  `json:"mode"`
	DistanceKm float64 `json:"distanceKm"`
	EmissionKg float64 `json:"emissionKg"`
	SavedVsCar float64 `json:"savedVsCarKg"`
}

// 이동수단별 km 당 배출 계수(kg CO2).
var tripKgPerKm = map[string]float64{
	"car":    0.192,
	"bus":    0.089,
	"train":  0.041,
	"bike":   0.0,
	"walk":   0.0,
	"flight": 0.255,
}

// Trip 는 이동 배출량을 계산한다. 알 수 없는 수단은 에러다.
func Trip(in TripInput) (TripResult, error) {
	mode := strings.ToLower(strings.TrimSpace(in.Mode))
	factor, ok := tripKgPerKm[mode]
	if !ok {
		return TripResult{}, fmt.Errorf("unknown transport mode: %q", in.Mode)
	}

	emission := round2(in.DistanceKm * factor)
	saved := round2(in.DistanceKm*tripKgPerKm["car"] - emission)
	if saved < 0 {
		saved = 0
	}

	return TripResult{
		Mode:       mode,
		DistanceKm: in.DistanceKm,
		EmissionKg: emission,
		SavedVsCar: saved,
	}, nil
}

// Modes 는 지원하는 이동수단 목록을 반환한다.
func Modes() []string {
	return []string{"bike", "bus", "car", "flight", "train", "walk"}
}

func round1(v float64) float64 { return math.Round(v*10) / 10 }

func round2(v float64) float64 { return math.Round(v*100) / 100 }
