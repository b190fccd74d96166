package report

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/relex/gotils/channels"
	"github.com/relex/gotils/logger"
	"github.com/relex/gotils/promexporter/promreg"
	"github.com/stretchr/testify/assert"

	"github.com/MarshallOfSound/mocha-appveyor-reporter/base"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/defs"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/filter"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/relay"
	"github.com/MarshallOfSound/mocha-appveyor-reporter/sink/appveyor"
)

// mockIngestion collects batches posted to /api/tests/batch
type mockIngestion struct {
	mutex   sync.Mutex
	batches [][]base.TestResult
}

func (m *mockIngestion) handle(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)
	var batch []base.TestResult
	if err := json.Unmarshal(body, &batch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	m.mutex.Lock()
	m.batches = append(m.batches, batch)
	m.mutex.Unlock()
	w.WriteHeader(http.StatusOK)
}

func (m *mockIngestion) allResults() []base.TestResult {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	all := make([]base.TestResult, 0, 100)
	for _, batch := range m.batches {
		all = append(all, batch...)
	}
	return all
}

func TestRecorderEndToEnd(t *testing.T) {
	ingestion := &mockIngestion{}
	server := httptest.NewServer(http.HandlerFunc(ingestion.handle))
	defer server.Close()

	mfactory := promreg.NewMetricFactory("testrecorder_", nil, nil)
	sender := appveyor.NewSender(logger.Root(), server.URL, appveyor.ClientConfig{Timeout: time.Second})
	rel := relay.New(logger.Root(), sender, 2, 50*time.Millisecond, mfactory)
	rel.Launch()

	excluder, ferr := (&filter.Config{ExcludePatterns: []string{"*skip me*"}}).NewFilter()
	assert.NoError(t, ferr)
	rec := NewRecorder(logger.Root(), rel, excluder, "mocha", mfactory)

	duration := int64(12)
	assert.NoError(t, rec.TestCompleted(TestEvent{
		Name:                 "adds numbers",
		File:                 "math.spec.js",
		Outcome:              "passed",
		DurationMilliseconds: &duration,
		StdOut:               "computing...\n",
	}))
	assert.NoError(t, rec.TestCompleted(TestEvent{
		Name:            "breaks everything",
		File:            "math.spec.js",
		Outcome:         "failed",
		ErrorMessage:    "assertion failed",
		ErrorStackTrace: "at math.spec.js:10",
	}))
	assert.NoError(t, rec.TestCompleted(TestEvent{
		Name:    "please skip me now",
		Outcome: "passed",
	}))
	assert.NoError(t, rec.TestCompleted(TestEvent{
		Name:      "legacy check",
		Framework: "karma",
		Outcome:   "pending",
	}))
	assert.Error(t, rec.TestCompleted(TestEvent{
		Name:    "weird event",
		Outcome: "exploded",
	}))

	drained := channels.NewSignalAwaitable()
	rec.Close(drained.Signal)
	assert.True(t, drained.Wait(defs.TestReadTimeout))

	all := ingestion.allResults()
	assert.Len(t, all, 3) // excluded and malformed events are not reported
	assert.Equal(t, "adds numbers", all[0].TestName)
	assert.Equal(t, "mocha", all[0].TestFramework)
	assert.Equal(t, base.OutcomePassed, all[0].Outcome)
	assert.Equal(t, "computing...\n", all[0].StdOut)
	assert.Equal(t, "breaks everything", all[1].TestName)
	assert.Equal(t, "assertion failed", all[1].ErrorMessage)
	assert.Equal(t, "karma", all[2].TestFramework)
	assert.Equal(t, base.OutcomeIgnored, all[2].Outcome)

	passed, failed, ignored := rec.Summary().Totals()
	assert.Equal(t, int64(1), passed) // the excluded test is not counted as reported
	assert.Equal(t, int64(1), failed)
	assert.Equal(t, int64(1), ignored)
}

func TestRecorderSanitizesEvents(t *testing.T) {
	mfactory := promreg.NewMetricFactory("testrecordersanitize_", nil, nil)

	var lastResult base.TestResult
	sender := base.BatchSenderFunc(func(batch []base.TestResult) error {
		lastResult = batch[len(batch)-1]
		return nil
	})
	rel := relay.New(logger.Root(), sender, 1, time.Hour, mfactory)
	rel.Launch()
	rec := NewRecorder(logger.Root(), rel, nil, "mocha", mfactory)

	negative := int64(-5)
	assert.NoError(t, rec.TestCompleted(TestEvent{
		Name:                 "timed oddly",
		Outcome:              "Passed",
		DurationMilliseconds: &negative,
		ErrorMessage:         "leftover junk", // must be cleared for non-failed outcomes
	}))

	drained := channels.NewSignalAwaitable()
	rec.Close(drained.Signal)
	assert.True(t, drained.Wait(defs.TestReadTimeout))

	assert.Equal(t, "timed oddly", lastResult.TestName)
	assert.Nil(t, lastResult.DurationMilliseconds)
	assert.Equal(t, "", lastResult.ErrorMessage)
	assert.Equal(t, "mocha", lastResult.TestFramework)
}

func TestRecorderWithoutEndpoint(t *testing.T) {
	mfactory := promreg.NewMetricFactory("testrecordernoendpoint_", nil, nil)
	rel := relay.New(logger.Root(), nil, 100, time.Second, mfactory)
	rel.Launch()
	rec := NewRecorder(logger.Root(), rel, nil, "mocha", mfactory)

	for i := 0; i < 5; i++ {
		assert.NoError(t, rec.TestCompleted(TestEvent{Name: "t", Outcome: "passed"}))
	}

	completed := false
	rec.Close(func() { completed = true })
	assert.True(t, completed) // synchronous when reporting is disabled
}
