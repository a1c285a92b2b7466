// Package agg buckets normalized health events into one record per local
// calendar day and applies the per-metric reducers.
package agg

import (
	"sort"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/core/normalize"
	"github.com/hi-wesley/my-healthness-pal-sub000/core/stats"
	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
)

// PoundsPerKilogram converts weight samples reported in pounds.
const PoundsPerKilogram = 0.45359237

// Aggregator owns the timezone formatter cache used to compute day keys.
// It holds no per-call state; every Aggregate call recomputes from the
// full record set.
type Aggregator struct {
	locs *contract.LocationCache
}

// New creates an Aggregator backed by the given location cache.
func New(locs *contract.LocationCache) *Aggregator {
	return &Aggregator{locs: locs}
}

// weightSample pairs a weight reading with its instant so the day's final
// value can be the latest sample, not an average.
type weightSample struct {
	at time.Time
	kg float64
}

// bpSample is one blood pressure reading; both components are required.
type bpSample struct {
	systolic  float64
	diastolic float64
}

// dayAccum is the mutable per-day accumulator used while scanning records.
type dayAccum struct {
	sleepMinutes  float64
	sleepSessions []schema.SleepSessionDetail
	sleepQuality  []float64

	calories float64
	carbsG   float64
	proteinG float64
	fatG     float64
	sugarG   float64

	steps float64

	workoutMinutes  float64
	workoutCalories float64
	workoutLoad     float64
	activities      map[string]schema.ActivityTotals

	rhrSamples    []float64
	weightSamples []weightSample
	bpSamples     []bpSample
}

// Aggregate scans the records once, reduces them into per-day accumulators
// keyed by local calendar day in timeZone, and finalizes a contiguous
// DailySeries. An invalid timezone falls back via the location cache and
// never fails the call.
func (a *Aggregator) Aggregate(records []schema.NormalizedRecord, timeZone string) schema.DailySeries {
	loc := a.locs.Load(timeZone)
	accums := make(map[string]*dayAccum)

	for i := range records {
		a.reduce(&records[i], loc, accums)
	}

	return finalize(accums)
}

// reduce applies the per-type reducer for one record. Unknown types are
// silently ignored at this stage.
func (a *Aggregator) reduce(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	switch rec.Type {
	case schema.SleepSessionRecord:
		reduceSleep(rec, loc, accums)
	case schema.NutritionRecord:
		reduceNutrition(rec, loc, accums)
	case schema.StepsRecord:
		reduceSteps(rec, loc, accums)
	case schema.WorkoutRecord:
		reduceWorkout(rec, loc, accums)
	case schema.RestingHeartRateRecord:
		reduceRestingHeartRate(rec, loc, accums)
	case schema.WeightRecord:
		reduceWeight(rec, loc, accums)
	case schema.BloodPressureRecord:
		reduceBloodPressure(rec, loc, accums)
	}
}

// accumFor returns the accumulator for a day key, creating it on first use.
func accumFor(accums map[string]*dayAccum, key string) *dayAccum {
	acc, ok := accums[key]
	if !ok {
		acc = &dayAccum{}
		accums[key] = acc
	}
	return acc
}

// effectiveDayKey resolves the record's own day: timestamp, then start,
// then end, formatted in loc.
func effectiveDayKey(rec *schema.NormalizedRecord, loc *time.Location) (string, bool) {
	t := rec.EffectiveTime()
	if t == nil {
		return "", false
	}
	return contract.DayKey(*t, loc), true
}

// reduceSleep attributes the session's duration to the day the session
// ends on, not the day it starts.
func reduceSleep(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	if rec.Start == nil || rec.End == nil {
		return
	}
	minutes := rec.End.Sub(*rec.Start).Minutes()
	acc := accumFor(accums, contract.DayKey(*rec.End, loc))
	acc.sleepMinutes += minutes

	detail := schema.SleepSessionDetail{
		Start:   *rec.Start,
		End:     *rec.End,
		Minutes: minutes,
	}
	if q, ok := normalize.CoerceNumber(rec.Data["quality"]); ok {
		acc.sleepQuality = append(acc.sleepQuality, q)
		detail.Quality = &q
	}
	// Stage and respiration detail is retained per-session for display only.
	if rawStages, ok := rec.Data["stages"].(map[string]any); ok {
		stages := make(map[string]float64, len(rawStages))
		for name, v := range rawStages {
			if minutesInStage, ok := normalize.CoerceNumber(v); ok {
				stages[name] = minutesInStage
			}
		}
		if len(stages) > 0 {
			detail.Stages = stages
		}
	}
	if resp, ok := normalize.CoerceNumber(rec.Data["respiration_avg"]); ok {
		detail.RespirationAvg = &resp
	}
	acc.sleepSessions = append(acc.sleepSessions, detail)
}

func reduceNutrition(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	key, ok := effectiveDayKey(rec, loc)
	if !ok {
		return
	}
	acc := accumFor(accums, key)
	if v, ok := normalize.CoerceNumber(rec.Data["calories"]); ok {
		acc.calories += v
	}
	if v, ok := normalize.CoerceNumber(rec.Data["carbs_g"]); ok {
		acc.carbsG += v
	}
	if v, ok := normalize.CoerceNumber(rec.Data["protein_g"]); ok {
		acc.proteinG += v
	}
	if v, ok := normalize.CoerceNumber(rec.Data["fat_g"]); ok {
		acc.fatG += v
	}
	if v, ok := normalize.CoerceNumber(rec.Data["sugar_g"]); ok {
		acc.sugarG += v
	}
}

func reduceSteps(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	key, ok := effectiveDayKey(rec, loc)
	if !ok {
		return
	}
	acc := accumFor(accums, key)
	if v, ok := normalize.CoerceNumber(rec.Data["count"]); ok {
		acc.steps += v
	}
}

// intensityFactor maps a workout's intensity tag to its load multiplier.
func intensityFactor(v any) float64 {
	s, _ := v.(string)
	switch s {
	case "hard":
		return schema.IntensityFactorHard
	case "easy":
		return schema.IntensityFactorEasy
	default: // "moderate" and anything unrecognized
		return schema.IntensityFactorModerate
	}
}

func reduceWorkout(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	key, ok := effectiveDayKey(rec, loc)
	if !ok {
		return
	}
	acc := accumFor(accums, key)

	minutes, hasMinutes := normalize.CoerceNumber(rec.Data["duration_minutes"])
	calories, hasCalories := normalize.CoerceNumber(rec.Data["calories"])

	if hasMinutes {
		acc.workoutMinutes += minutes
		acc.workoutLoad += minutes * intensityFactor(rec.Data["intensity"])
	}
	if hasCalories {
		acc.workoutCalories += calories
	}

	activity, _ := rec.Data["activity"].(string)
	if activity == "" {
		activity = "Workout"
	}
	if acc.activities == nil {
		acc.activities = make(map[string]schema.ActivityTotals)
	}
	totals := acc.activities[activity]
	if hasMinutes {
		totals.Minutes += minutes
	}
	if hasCalories {
		totals.Calories += calories
	}
	acc.activities[activity] = totals
}

func reduceRestingHeartRate(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	key, ok := effectiveDayKey(rec, loc)
	if !ok {
		return
	}
	if bpm, ok := normalize.CoerceNumber(rec.Data["bpm"]); ok {
		acc := accumFor(accums, key)
		acc.rhrSamples = append(acc.rhrSamples, bpm)
	}
}

// reduceWeight collects timestamped samples; the day's final value is the
// latest sample, never an average. Accepts kilograms or pounds.
func reduceWeight(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	t := rec.EffectiveTime()
	if t == nil {
		return
	}

	kg, ok := normalize.CoerceNumber(rec.Data["kg"])
	if !ok {
		if lb, lbOK := normalize.CoerceNumber(rec.Data["lb"]); lbOK {
			kg, ok = lb*PoundsPerKilogram, true
		}
	}
	if !ok {
		return
	}

	acc := accumFor(accums, contract.DayKey(*t, loc))
	acc.weightSamples = append(acc.weightSamples, weightSample{at: *t, kg: kg})
}

// reduceBloodPressure requires both components; the daily value is the
// average of same-day samples.
func reduceBloodPressure(rec *schema.NormalizedRecord, loc *time.Location, accums map[string]*dayAccum) {
	key, ok := effectiveDayKey(rec, loc)
	if !ok {
		return
	}
	systolic, okS := normalize.CoerceNumber(rec.Data["systolic"])
	diastolic, okD := normalize.CoerceNumber(rec.Data["diastolic"])
	if !okS || !okD {
		return
	}
	acc := accumFor(accums, key)
	acc.bpSamples = append(acc.bpSamples, bpSample{systolic: systolic, diastolic: diastolic})
}

// finalize turns the accumulators into the public contiguous DailySeries:
// every calendar day between the earliest and latest observed keys is
// present exactly once, with gap days materialized as all-nil records.
func finalize(accums map[string]*dayAccum) schema.DailySeries {
	if len(accums) == 0 {
		return schema.DailySeries{Days: []schema.DailyRecord{}}
	}

	keys := make([]string, 0, len(accums))
	for k := range accums {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	minKey, maxKey := keys[0], keys[len(keys)-1]

	days := make([]schema.DailyRecord, 0, len(accums))
	for _, key := range dayKeyRange(minKey, maxKey) {
		days = append(days, finalizeDay(key, accums[key]))
	}

	return schema.DailySeries{Days: days, MinDayKey: minKey, MaxDayKey: maxKey}
}

// dayKeyRange generates the contiguous inclusive key range. Keys are
// walked in UTC; day keys are plain calendar dates, so DST shifts in the
// aggregation zone cannot skip or double a key here.
func dayKeyRange(minKey, maxKey string) []string {
	start, err := time.Parse(contract.DayKeyLayout, minKey)
	if err != nil {
		return []string{minKey}
	}

	var keys []string
	for t := start; ; t = t.AddDate(0, 0, 1) {
		key := t.Format(contract.DayKeyLayout)
		if key > maxKey {
			break
		}
		keys = append(keys, key)
	}
	return keys
}

// finalizeDay converts one accumulator into the public DailyRecord shape.
// acc is nil for gap days. Summed totals use > 0 as the "has data" test;
// averaged and latest-wins fields emit whenever samples exist.
func finalizeDay(key string, acc *dayAccum) schema.DailyRecord {
	day := schema.DailyRecord{DayKey: key}
	if acc == nil {
		return day
	}

	if acc.sleepMinutes > 0 {
		day.SleepHours = ptr(acc.sleepMinutes / 60)
	}
	if mean, ok := stats.Mean(acc.sleepQuality); ok {
		day.SleepQuality = ptr(mean)
	}

	day.Calories = positiveOrNil(acc.calories)
	day.CarbsG = positiveOrNil(acc.carbsG)
	day.ProteinG = positiveOrNil(acc.proteinG)
	day.FatG = positiveOrNil(acc.fatG)
	day.SugarG = positiveOrNil(acc.sugarG)
	day.Steps = positiveOrNil(acc.steps)
	day.WorkoutMinutes = positiveOrNil(acc.workoutMinutes)
	day.WorkoutCalories = positiveOrNil(acc.workoutCalories)
	day.WorkoutLoad = positiveOrNil(acc.workoutLoad)

	if mean, ok := stats.Mean(acc.rhrSamples); ok {
		day.RHRBpm = ptr(mean)
	}

	if len(acc.weightSamples) > 0 {
		latest := acc.weightSamples[0]
		for _, s := range acc.weightSamples[1:] {
			if s.at.After(latest.at) {
				latest = s
			}
		}
		day.WeightKg = ptr(latest.kg)
	}

	if len(acc.bpSamples) > 0 {
		var sumSys, sumDia float64
		for _, s := range acc.bpSamples {
			sumSys += s.systolic
			sumDia += s.diastolic
		}
		n := float64(len(acc.bpSamples))
		day.BPSystolic = ptr(sumSys / n)
		day.BPDiastolic = ptr(sumDia / n)
	}

	day.SleepSessions = acc.sleepSessions
	if len(acc.activities) > 0 {
		day.Activities = acc.activities
	}

	return day
}

// positiveOrNil implements the summed-field emit rule: a total of exactly
// zero is indistinguishable from "no data" and stays nil.
func positiveOrNil(total float64) *float64 {
	if total > 0 {
		return ptr(total)
	}
	return nil
}

func ptr(v float64) *float64 {
	return &v
}
