package schema

// DailySeries is the aggregator's output: one DailyRecord per calendar day
// between MinDayKey and MaxDayKey inclusive, with gap days materialized as
// all-nil records. Day keys are ISO YYYY-MM-DD and strictly increasing.
type DailySeries struct {
	Days      []DailyRecord `json:"days"`
	MinDayKey string        `json:"min_day"`
	MaxDayKey string        `json:"max_day"`
}

// DayByKey builds a day-key lookup over the series.
func (s *DailySeries) DayByKey() map[string]*DailyRecord {
	m := make(map[string]*DailyRecord, len(s.Days))
	for i := range s.Days {
		m[s.Days[i].DayKey] = &s.Days[i]
	}
	return m
}

// RollingStats holds the trailing baseline for each day index. A nil entry
// means the trailing window had too few finite samples for a baseline.
type RollingStats struct {
	Means []*float64 `json:"means"`
	SDs   []*float64 `json:"sds"`
}

// AnomalyPoint is one flagged day, resolved back to its day key for output.
type AnomalyPoint struct {
	Index  int     `json:"index"`
	DayKey string  `json:"day"`
	Value  float64 `json:"value"`
	Mean   float64 `json:"baseline_mean"`
	SD     float64 `json:"baseline_sd"`
	ZScore float64 `json:"z_score"`
}

// AnomalyResult is the anomaly engine's output for one metric.
type AnomalyResult struct {
	Metric  MetricKey        `json:"metric"`
	Indices map[int]struct{} `json:"-"`
	Stats   RollingStats     `json:"-"`
	Points  []AnomalyPoint   `json:"points"`
}

// Streak is an inclusive day-index range of consecutive elevated days.
type Streak struct {
	Start int `json:"start"`
	End   int `json:"end"`
	Len   int `json:"len"`
}

// StreakResult is the robust streak detector's output for one metric.
// HasThreshold is false when the series was too short or too constant to
// threshold at all; Qualifying is empty in that case.
type StreakResult struct {
	Metric         MetricKey `json:"metric"`
	Qualifying     []Streak  `json:"qualifying"`
	Threshold      float64   `json:"threshold"`
	BaselineMedian float64   `json:"baseline_median"`
	RobustSD       float64   `json:"robust_sd"`
	HasThreshold   bool      `json:"has_threshold"`
}

// Correlation is one ranked metric pair. R keeps its sign; ranking uses
// the absolute magnitude.
type Correlation struct {
	MetricX MetricKey `json:"metric_x"`
	MetricY MetricKey `json:"metric_y"`
	LagDays int       `json:"lag_days"`
	R       float64   `json:"r"`
	Samples int       `json:"samples"`
}

// AnalysisOutput bundles everything one full analysis pass produces.
type AnalysisOutput struct {
	User         UserProfile     `json:"user"`
	Series       DailySeries     `json:"series"`
	Anomalies    []AnomalyResult `json:"anomalies"`
	Streaks      StreakResult    `json:"streaks"`
	Correlations []Correlation   `json:"correlations"`
	Lagged       []Correlation   `json:"lagged_correlations"`
	Sources      []string        `json:"sources"`
	Warnings     []string        `json:"warnings,omitempty"`
}

// InsightDay is the fixed numeric schema handed to the LLM relay: one day
// of metrics with no detail payloads attached.
type InsightDay struct {
	Day             string   `json:"day"`
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
}

// NewInsightDay reshapes one DailyRecord into the insight schema.
func NewInsightDay(d *DailyRecord) InsightDay {
	return InsightDay{
		Day:             d.DayKey,
		SleepHours:      d.SleepHours,
		SleepQuality:    d.SleepQuality,
		Calories:        d.Calories,
		CarbsG:          d.CarbsG,
		ProteinG:        d.ProteinG,
		FatG:            d.FatG,
		SugarG:          d.SugarG,
		Steps:           d.Steps,
		WorkoutMinutes:  d.WorkoutMinutes,
		WorkoutCalories: d.WorkoutCalories,
		WorkoutLoad:     d.WorkoutLoad,
		RHRBpm:          d.RHRBpm,
		WeightKg:        d.WeightKg,
		BPSystolic:      d.BPSystolic,
		BPDiastolic:     d.BPDiastolic,
	}
}
