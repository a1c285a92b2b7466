// Package schema has configs, models and shared types for all parts of healthness.
package schema

import "time"

// UserProfile is the optional user block on an incoming payload.
type UserProfile struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	TZ   string `json:"tz,omitempty"`
}

// NormalizedRecord is the canonical form of one health event after
// validation. Created once by the normalizer and immutable afterward.
// Exactly one of Timestamp or the (Start, End) pair is guaranteed to be
// resolvable; unresolved fields stay nil.
type NormalizedRecord struct {
	Type      RecordType     `json:"type"`
	Data      map[string]any `json:"data"`
	Source    string         `json:"source"`
	Timestamp *time.Time     `json:"timestamp,omitempty"`
	Start     *time.Time     `json:"start,omitempty"`
	End       *time.Time     `json:"end,omitempty"`
}

// EffectiveTime returns the best-available event time for ordering and
// day attribution: timestamp, then start, then end.
func (r *NormalizedRecord) EffectiveTime() *time.Time {
	if r.Timestamp != nil {
		return r.Timestamp
	}
	if r.Start != nil {
		return r.Start
	}
	return r.End
}

// SleepSessionDetail retains per-session stage and respiration data for
// display. It carries no statistical weight downstream.
type SleepSessionDetail struct {
	Start          time.Time          `json:"start"`
	End            time.Time          `json:"end"`
	Minutes        float64            `json:"minutes"`
	Quality        *float64           `json:"quality,omitempty"`
	Stages         map[string]float64 `json:"stages,omitempty"`
	RespirationAvg *float64           `json:"respiration_avg,omitempty"`
}

// ActivityTotals is the per-activity breakdown accumulated for one day.
type ActivityTotals struct {
	Minutes  float64 `json:"minutes"`
	Calories float64 `json:"calories"`
}

// DailyRecord is one local calendar day of aggregated metrics.
// Every metric field is a pointer: nil means "no data", which is distinct
// from a value of zero and must be preserved by every reducer.
type DailyRecord struct {
	DayKey string `json:"day"`

	SleepHours      *float64 `json:"sleep_hours"`
	SleepQuality    *float64 `json:"sleep_quality"`
	Calories        *float64 `json:"calories"`
	CarbsG          *float64 `json:"carbs_g"`
	ProteinG        *float64 `json:"protein_g"`
	FatG            *float64 `json:"fat_g"`
	SugarG          *float64 `json:"sugar_g"`
	Steps           *float64 `json:"steps"`
	WorkoutMinutes  *float64 `json:"workout_minutes"`
	WorkoutCalories *float64 `json:"workout_calories"`
	WorkoutLoad     *float64 `json:"workout_load"`
	RHRBpm          *float64 `json:"rhr_bpm"`
	WeightKg        *float64 `json:"weight_kg"`
	BPSystolic      *float64 `json:"bp_systolic"`
	BPDiastolic     *float64 `json:"bp_diastolic"`

	// Display-only detail, not consumed by the statistical engines.
	SleepSessions []SleepSessionDetail      `json:"sleep_sessions,omitempty"`
	Activities    map[string]ActivityTotals `json:"activities,omitempty"`
}

// Metric returns the value of the named metric for this day, or nil when
// the day has no data for it.
func (d *DailyRecord) Metric(key MetricKey) *float64 {
	switch key {
	case MetricSleepHours:
		return d.SleepHours
	case MetricSleepQuality:
		return d.SleepQuality
	case MetricCalories:
		return d.Calories
	case MetricCarbsG:
		return d.CarbsG
	case MetricProteinG:
		return d.ProteinG
	case MetricFatG:
		return d.FatG
	case MetricSugarG:
		return d.SugarG
	case MetricSteps:
		return d.Steps
	case MetricWorkoutMinutes:
		return d.WorkoutMinutes
	case MetricWorkoutCalories:
		return d.WorkoutCalories
	case MetricWorkoutLoad:
		return d.WorkoutLoad
	case MetricRHRBpm:
		return d.RHRBpm
	case MetricWeightKg:
		return d.WeightKg
	case MetricBPSystolic:
		return d.BPSystolic
	case MetricBPDiastolic:
		return d.BPDiastolic
	}
	return nil
}

// MetricSeries extracts one metric across a day list, preserving nils.
func MetricSeries(days []DailyRecord, key MetricKey) []*float64 {
	series := make([]*float64, len(days))
	for i := range days {
		series[i] = days[i].Metric(key)
	}
	return series
}
