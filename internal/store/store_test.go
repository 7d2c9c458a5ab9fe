package store

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	s, err := Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openTestStore(t)
	if s.DB() == nil {
		t.Fatal("expected non-nil db")
	}
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		// WAL mode falls back to "memory" for in-memory databases.
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestAppendAndQueryLLMEvents(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "scenario-gen", ConversationID: "sid-1",
		InputTokens: 10, OutputTokens: 20, LatencyMs: 5, Success: true,
		RequestBody: "[user]\nhi", ResponseBody: `{"problems":[]}`,
	}))
	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "mock", Model: "mock", Purpose: "choice-eval", ConversationID: "sid-2",
		Success: false, ErrorMessage: "boom",
	}))

	all, err := repo.QueryLLMEvents(ctx, QueryOpts{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "choice-eval", all[0].Purpose, "newest first")
	assert.False(t, all[0].Success)
	assert.Equal(t, "boom", all[0].ErrorMessage)

	bySession, err := repo.QueryLLMEvents(ctx, QueryOpts{ConversationID: "sid-1"})
	require.NoError(t, err)
	require.Len(t, bySession, 1)
	assert.Equal(t, 10, bySession[0].InputTokens)
	assert.Equal(t, `{"problems":[]}`, bySession[0].ResponseBody)
	assert.WithinDuration(t, time.Now(), bySession[0].Timestamp, time.Minute)

	limited, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1, Purpose: "scenario-gen"})
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, "sid-1", limited[0].ConversationID)
}

func TestGetLLMEvent(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	require.NoError(t, repo.AppendLLMRequest(ctx, LLMRequestEventData{
		Provider: "openai", Model: "gpt-4o-mini", Purpose: "result", Success: true,
	}))

	events, err := repo.QueryLLMEvents(ctx, QueryOpts{Limit: 1})
	require.NoError(t, err)
	require.Len(t, events, 1)

	got, err := repo.GetLLMEvent(ctx, events[0].ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	assert.True(t, got.Success)

	missing, err := repo.GetLLMEvent(ctx, events[0].ID+100)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestLLMUsageAggregates(t *testing.T) {
	repo := openTestStore(t).EventRepo()
	ctx := context.Background()

	for _, d := range []LLMRequestEventData{
		{Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 100, OutputTokens: 50, LatencyMs: 10, Success: true},
		{Model: "gpt-4o-mini", Purpose: "scenario-gen", InputTokens: 200, OutputTokens: 50, LatencyMs: 30, Success: true},
		{Model: "gpt-4o-mini", Purpose: "choice-eval", LatencyMs: 5, Success: false},
	} {
		require.NoError(t, repo.AppendLLMRequest(ctx, d))
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	require.NoError(t, err)
	require.Len(t, byPurpose, 2)
	assert.Equal(t, "scenario-gen", byPurpose[0].Purpose)
	assert.Equal(t, 2, byPurpose[0].Calls)
	assert.Equal(t, 300, byPurpose[0].InputTokens)
	assert.Equal(t, int64(20), byPurpose[0].AvgLatencyMs)
	assert.Equal(t, 1, byPurpose[1].Failures)

	byModel, err := repo.LLMUsageByModel(ctx)
	require.NoError(t, err)
	require.Len(t, byModel, 1)
	assert.Equal(t, 2, byModel[0].Calls, "failed calls are not billed")
	assert.Equal(t, 100, byModel[0].OutputTokens)
}
