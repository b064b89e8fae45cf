package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/rehastep/rehastep-backend/internal/progress"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) doRequest(
	ctx context.Context,
	method, path, token string,
	body any,
) (int, []byte) {
	t := s.T()
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		bodyJson, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(bodyJson)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reqBody)
	require.NoError(t, err)
	req.Header.Set("User-Agent", "test-agent")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("X-REHAB-TOKEN", token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, respBytes
}

func (s *IntegrationTestSuite) TestPing() {
	ctx := context.Background()
	status, body := s.doRequest(ctx, "GET", "/ping", "", nil)
	s.Require().Equal(http.StatusOK, status)
	s.Assert().Equal("pong", string(body))
}

func (s *IntegrationTestSuite) TestProgress_Unauthorized() {
	ctx := context.Background()

	path := fmt.Sprintf("/progress/plan/%s", testPlanID)
	status, _ := s.doRequest(ctx, "GET", path, "", nil)
	s.Assert().Equal(http.StatusUnauthorized, status)

	status, _ = s.doRequest(ctx, "GET", path, "no-such-token", nil)
	s.Assert().Equal(http.StatusUnauthorized, status)
}

func (s *IntegrationTestSuite) TestProgress_PlanNotFound() {
	ctx := context.Background()
	t := s.T()

	token := s.newSession(ctx, t, gofakeit.UUID())
	status, _ := s.doRequest(ctx, "GET", "/progress/plan/no-such-plan", token, nil)
	s.Assert().Equal(http.StatusNotFound, status)
}

func (s *IntegrationTestSuite) TestCompleteExercise_Validation() {
	ctx := context.Background()
	t := s.T()

	token := s.newSession(ctx, t, gofakeit.UUID())
	path := fmt.Sprintf("/progress/plan/%s/exercise", testPlanID)

	// irritability score out of range
	status, _ := s.doRequest(ctx, "POST", path, token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e1",
		IrritabilityScore: 11,
		Timezone:          "Europe/Berlin",
	})
	s.Assert().Equal(http.StatusBadRequest, status)

	// unresolvable timezone
	status, _ = s.doRequest(ctx, "POST", path, token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e1",
		IrritabilityScore: 3,
		Timezone:          "Mars/Olympus_Mons",
	})
	s.Assert().Equal(http.StatusBadRequest, status)
}

func (s *IntegrationTestSuite) TestCompleteExercise_NotInPlan() {
	ctx := context.Background()
	t := s.T()

	token := s.newSession(ctx, t, gofakeit.UUID())
	progressPath := fmt.Sprintf("/progress/plan/%s", testPlanID)

	// a session id the plan does not contain
	status, _ := s.doRequest(ctx, "POST", progressPath+"/exercise", token, progress.ExerciseCompletionRequest{
		SessionID:         "no-such-session",
		ExerciseID:        "ghost",
		IrritabilityScore: 3,
		Timezone:          "UTC",
	})
	s.Assert().Equal(http.StatusNotFound, status)

	// a real session, but an exercise from another one
	status, _ = s.doRequest(ctx, "POST", progressPath+"/exercise", token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e3",
		IrritabilityScore: 3,
		Timezone:          "UTC",
	})
	s.Assert().Equal(http.StatusNotFound, status)

	status, _ = s.doRequest(ctx, "POST", progressPath+"/session", token, progress.SessionCompletionRequest{
		SessionID: "no-such-session",
		Timezone:  "UTC",
	})
	s.Assert().Equal(http.StatusNotFound, status)

	// the ledger is append-only, so none of those may have landed
	status, body := s.doRequest(ctx, "GET", progressPath, token, nil)
	require.Equal(t, http.StatusOK, status)

	var view progress.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Zero(t, view.CompletedExercises)
	assert.Zero(t, view.CompletedSessions)
}

// TestProgress_FullFlow runs one user through the plan: pristine view, a few
// exercise completions, a session completion, duplicates rejected along the
// way, and the unlock state and adherence report moving accordingly.
func (s *IntegrationTestSuite) TestProgress_FullFlow() {
	ctx := context.Background()
	t := s.T()

	userID := gofakeit.UUID()
	token := s.newSession(ctx, t, userID)

	progressPath := fmt.Sprintf("/progress/plan/%s", testPlanID)
	exercisePath := progressPath + "/exercise"
	sessionPath := progressPath + "/session"

	// pristine view: only week 1 day 1 unlocked
	status, body := s.doRequest(ctx, "GET", progressPath, token, nil)
	require.Equal(t, http.StatusOK, status)

	var view progress.View
	require.NoError(t, json.Unmarshal(body, &view))
	assert.Equal(t, testPlanID, view.PlanID)
	assert.Equal(t, 1, view.CurrentWeek)
	assert.Equal(t, 1, view.CurrentDay)
	assert.Equal(t, 3, view.TotalSessions)
	assert.Equal(t, 4, view.TotalExercises)
	require.Len(t, view.Weeks, 2)
	assert.True(t, view.Weeks[0].Days[0].Unlocked)
	assert.False(t, view.Weeks[0].Days[1].Unlocked)
	assert.False(t, view.Weeks[1].Unlocked)

	// complete the first exercise of session 1
	status, body = s.doRequest(ctx, "POST", exercisePath, token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e1",
		IrritabilityScore: 2,
		Timezone:          "Europe/Berlin",
	})
	require.Equal(t, http.StatusCreated, status)

	var exerciseResult progress.ExerciseCompletionResult
	require.NoError(t, json.Unmarshal(body, &exerciseResult))
	assert.Equal(t, 25, exerciseResult.ProgressPercent)
	assert.Equal(t, "e1", exerciseResult.Completion.ExerciseID)

	// same exercise again is a conflict, nothing changes
	status, _ = s.doRequest(ctx, "POST", exercisePath, token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e1",
		IrritabilityScore: 7,
		Timezone:          "Europe/Berlin",
	})
	assert.Equal(t, http.StatusConflict, status)

	// exercises alone never complete the session
	status, body = s.doRequest(ctx, "POST", exercisePath, token, progress.ExerciseCompletionRequest{
		SessionID:         "s1",
		ExerciseID:        "e2",
		IrritabilityScore: 4,
		Timezone:          "Europe/Berlin",
	})
	require.Equal(t, http.StatusCreated, status)
	require.NoError(t, json.Unmarshal(body, &exerciseResult))
	assert.Equal(t, 50, exerciseResult.ProgressPercent)

	status, body = s.doRequest(ctx, "GET", progressPath, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.False(t, view.Weeks[0].Days[0].Completed)
	assert.False(t, view.Weeks[0].Days[1].Unlocked)

	// the explicit session completion unlocks day 2
	status, body = s.doRequest(ctx, "POST", sessionPath, token, progress.SessionCompletionRequest{
		SessionID:  "s1",
		Difficulty: progress.DifficultyJustRight,
		UserNote:   "knee felt stable today",
		Timezone:   "Europe/Berlin",
	})
	require.Equal(t, http.StatusCreated, status)

	var sessionResult progress.SessionCompletionResult
	require.NoError(t, json.Unmarshal(body, &sessionResult))
	assert.Equal(t, 1, sessionResult.Streaks.Weekly)
	assert.Equal(t, 1, sessionResult.Streaks.Monthly)
	assert.Equal(t, "knee felt stable today", sessionResult.Completion.UserNote)

	status, _ = s.doRequest(ctx, "POST", sessionPath, token, progress.SessionCompletionRequest{
		SessionID: "s1",
		Timezone:  "Europe/Berlin",
	})
	assert.Equal(t, http.StatusConflict, status)

	status, body = s.doRequest(ctx, "GET", progressPath, token, nil)
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(body, &view))
	assert.True(t, view.Weeks[0].Days[0].Completed)
	assert.True(t, view.Weeks[0].Days[1].Unlocked)
	assert.False(t, view.Weeks[1].Unlocked)
	assert.Equal(t, 1, view.CompletedSessions)
	assert.Equal(t, 2, view.CompletedExercises)
	assert.Equal(t, 1, view.CurrentWeek)
	assert.Equal(t, 2, view.CurrentDay)

	// adherence: 3 sessions assigned, the window covers the 3 earliest of its
	// 7 days, and today's completion lands outside those
	adherencePath := fmt.Sprintf("%s/adherence?window=7&tz=%s", progressPath, "UTC")
	status, body = s.doRequest(ctx, "GET", adherencePath, token, nil)
	require.Equal(t, http.StatusOK, status)

	var report progress.AdherenceReport
	require.NoError(t, json.Unmarshal(body, &report))
	assert.Equal(t, 7, report.WindowDays)
	assert.Equal(t, 3, report.AvailableInWindow)
	assert.Equal(t, 2, report.RemainingTotal)
	assert.False(t, report.IsPlanComplete)
}
