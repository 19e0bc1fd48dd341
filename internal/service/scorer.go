package service

import (
	"math"
	"strings"

	"github.com/slformation-dryyss/slformations-sub002/internal/models"
)

// Scoring weights for instructor matching. The formula is a fixed,
// explainable sum of three independent components.
const (
	geoSameCity       = 100
	geoSameDepartment = 50
	geoOther          = 10
	workloadWeight    = 30
	vehicleBonus      = 10
)

// ScoreInput bundles everything the matcher knows about one
// (student, instructor) pair at scoring time.
type ScoreInput struct {
	Student           models.Student
	Instructor        models.Instructor
	ActiveAssignments int
	// PreferredVehicle is nil when the student expressed no preference.
	PreferredVehicle *models.VehicleType
}

// ScoreBreakdown exposes the per-component contributions so a match
// decision can be explained to an operator.
type ScoreBreakdown struct {
	Geo      int `json:"geo"`
	Workload int `json:"workload"`
	Vehicle  int `json:"vehicle"`
	Total    int `json:"total"`
}

// Score computes the match score for one (student, instructor) pair.
// Pure function: no I/O, no side effects, deterministic for equal inputs.
func Score(in ScoreInput) ScoreBreakdown {
	breakdown := ScoreBreakdown{
		Geo:      geoScore(in.Student, in.Instructor),
		Workload: workloadScore(in.ActiveAssignments, in.Instructor.MaxStudentsPerWeek),
		Vehicle:  vehicleScore(in.Instructor, in.PreferredVehicle),
	}
	breakdown.Total = breakdown.Geo + breakdown.Workload + breakdown.Vehicle
	return breakdown
}

// geoScore grants exactly one of the three tiers. A student without a
// postal code has department "" which never equals an instructor
// department, so it lands on the lowest tier instead of failing.
func geoScore(student models.Student, instructor models.Instructor) int {
	if student.City != "" && strings.EqualFold(student.City, instructor.City) {
		return geoSameCity
	}
	if dept := student.DepartmentCode(); dept != "" && dept == instructor.Department {
		return geoSameDepartment
	}
	return geoOther
}

// workloadScore rewards instructors with spare weekly capacity. An empty
// roster contributes the full weight, an instructor at or above capacity
// contributes zero. A non-positive max is treated as at-capacity.
func workloadScore(active, maxPerWeek int) int {
	if maxPerWeek <= 0 {
		return 0
	}
	ratio := float64(active) / float64(maxPerWeek)
	score := workloadWeight - ratio*workloadWeight
	if score <= 0 {
		return 0
	}
	return int(math.Round(score))
}

func vehicleScore(instructor models.Instructor, pref *models.VehicleType) int {
	if pref == nil {
		return 0
	}
	if instructor.SupportsVehicle(*pref) {
		return vehicleBonus
	}
	return 0
}
