package core

import (
	"fmt"
	"testing"
	"time"

	"github.com/hi-wesley/my-healthness-pal-sub000/internal/contract"
	"github.com/hi-wesley/my-healthness-pal-sub000/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockHistoryStore is a testify mock of contract.HistoryStore.
type MockHistoryStore struct {
	mock.Mock
}

var _ contract.HistoryStore = &MockHistoryStore{}

func (m *MockHistoryStore) BeginAnalysis(startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockHistoryStore) EndAnalysis(analysisID int64, endTime time.Time, totalDays int) error {
	args := m.Called(analysisID, endTime, totalDays)
	return args.Error(0)
}

func (m *MockHistoryStore) RecordDayMetrics(analysisID int64, day *schema.DailyRecord) error {
	args := m.Called(analysisID, day)
	return args.Error(0)
}

func (m *MockHistoryStore) GetAllAnalysisRuns() ([]schema.AnalysisRunRecord, error) {
	args := m.Called()
	return args.Get(0).([]schema.AnalysisRunRecord), args.Error(1)
}

func (m *MockHistoryStore) GetAllDayMetrics() ([]schema.DayMetricRecord, error) {
	args := m.Called()
	return args.Get(0).([]schema.DayMetricRecord), args.Error(1)
}

func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

func (m *MockHistoryStore) Clear() error {
	return m.Called().Error(0)
}

func (m *MockHistoryStore) Close() error {
	return m.Called().Error(0)
}

// mockHistoryManager hands out one fixed store.
type mockHistoryManager struct {
	store contract.HistoryStore
}

func (m *mockHistoryManager) GetHistoryStore() contract.HistoryStore {
	return m.store
}

func testConfig() *contract.Config {
	return &contract.Config{
		TimeZone: "UTC",
		Params:   *(&contract.AnalysisParams{}).Normalize(),
		Metric:   schema.MetricRHRBpm,
		Metrics:  schema.DefaultCorrelationKeys,
	}
}

// testPayload builds two weeks of plausible records with an RHR spike on
// the final day.
func testPayload() []byte {
	payload := `{"user": {"id": "u1", "name": "Wes", "tz": "UTC"}, "records": [`
	for i := 1; i <= 14; i++ {
		if i > 1 {
			payload += ","
		}
		// Mild day-to-day wobble so the baseline SD is nonzero, with one
		// unmistakable spike at the end.
		bpm := 50 + i%4
		if i == 14 {
			bpm = 75
		}
		payload += fmt.Sprintf(
			`{"type": "resting_heart_rate", "source": "Garmin", "timestamp": "2024-01-%02dT06:00:00Z", "data": {"bpm": %d}},`, i, bpm)
		payload += fmt.Sprintf(
			`{"type": "steps", "source": "Garmin", "timestamp": "2024-01-%02dT21:00:00Z", "data": {"count": 5000}}`, i)
	}
	payload += `]}`
	return []byte(payload)
}

func TestRunFullPass(t *testing.T) {
	out, err := NewAnalyzer(testConfig()).Run(testConfig(), testPayload(), nil)
	require.NoError(t, err)

	assert.Equal(t, "u1", out.User.ID)
	assert.Equal(t, []string{"Garmin"}, out.Sources)
	require.Len(t, out.Series.Days, 14)
	assert.Equal(t, "2024-01-01", out.Series.MinDayKey)
	assert.Equal(t, "2024-01-14", out.Series.MaxDayKey)

	// The RHR spike on the final day must be flagged.
	require.Len(t, out.Anomalies, 1)
	assert.Equal(t, schema.MetricRHRBpm, out.Anomalies[0].Metric)
	require.Len(t, out.Anomalies[0].Points, 1)
	assert.Equal(t, "2024-01-14", out.Anomalies[0].Points[0].DayKey)
}

func TestRunAbortsOnAnyInvalidRecord(t *testing.T) {
	payload := []byte(`{"records": [
		{"type": "steps", "timestamp": "2024-01-01T08:00:00Z", "data": {"count": 4000}},
		{"type": "steps", "data": {"count": 5000}}
	]}`)

	out, err := NewAnalyzer(testConfig()).Run(testConfig(), payload, nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Contains(t, err.Error(), "no analysis performed")
	assert.Contains(t, err.Error(), "record 2")
}

func TestRunRejectsMalformedPayload(t *testing.T) {
	_, err := NewAnalyzer(testConfig()).Run(testConfig(), []byte(`{"records": [`), nil)
	assert.Error(t, err)
}

func TestRunPayloadTimeZoneWins(t *testing.T) {
	// 02:00 UTC lands on the previous day in Los Angeles.
	payload := []byte(`{
		"user": {"tz": "America/Los_Angeles"},
		"records": [{"type": "steps", "timestamp": "2024-01-02T02:00:00Z", "data": {"count": 4000}}]
	}`)

	out, err := NewAnalyzer(testConfig()).Run(testConfig(), payload, nil)
	require.NoError(t, err)
	require.Len(t, out.Series.Days, 1)
	assert.Equal(t, "2024-01-01", out.Series.Days[0].DayKey)
}

func TestRunRecordsHistory(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(7), nil)
	store.On("RecordDayMetrics", int64(7), mock.Anything).Return(nil)
	store.On("EndAnalysis", int64(7), mock.Anything, 14).Return(nil)

	_, err := NewAnalyzer(testConfig()).Run(testConfig(), testPayload(), &mockHistoryManager{store: store})
	require.NoError(t, err)

	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "RecordDayMetrics", 14)
}

func TestRunHistoryFailureIsNotFatal(t *testing.T) {
	store := &MockHistoryStore{}
	store.On("BeginAnalysis", mock.Anything, mock.Anything).Return(int64(0), fmt.Errorf("disk full"))

	out, err := NewAnalyzer(testConfig()).Run(testConfig(), testPayload(), &mockHistoryManager{store: store})
	require.NoError(t, err)
	assert.NotNil(t, out)
	store.AssertNotCalled(t, "RecordDayMetrics", mock.Anything, mock.Anything)
}

func TestRunStressScorerLabelsSurfaceAsWarnings(t *testing.T) {
	analyzer := NewAnalyzer(testConfig())
	analyzer.Scorer = func(dayByKey map[string]*schema.DailyRecord, dayKey string, params *contract.AnalysisParams) (*float64, *string) {
		if dayKey != "2024-01-14" {
			return nil, nil
		}
		score := 0.9
		label := "elevated stress"
		return &score, &label
	}

	out, err := analyzer.Run(testConfig(), testPayload(), nil)
	require.NoError(t, err)
	require.NotEmpty(t, out.Warnings)
	assert.Contains(t, out.Warnings[len(out.Warnings)-1], "2024-01-14: elevated stress")
}
