package match

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skillswap/internal/app/store"
	"skillswap/internal/configs"
	"skillswap/internal/pkg/errs"
)

// fakeDirectory is an in-memory Directory implementation for engine tests.
type fakeDirectory struct {
	requester    *store.UserWithSkills
	requesterErr error
	pool         []store.UserWithSkills
	poolErr      error
}

func (f *fakeDirectory) GetUserWithSkills(_ context.Context, _ string, _ store.SkillKind) (*store.UserWithSkills, error) {
	if f.requesterErr != nil {
		return nil, f.requesterErr
	}
	return f.requester, nil
}

func (f *fakeDirectory) ListOthersWithSkills(_ context.Context, _ string, _ store.SkillKind) ([]store.UserWithSkills, error) {
	if f.poolErr != nil {
		return nil, f.poolErr
	}
	return f.pool, nil
}

// fakeGenerator records calls and returns a canned advice string or error.
type fakeGenerator struct {
	text  string
	err   error
	calls int
}

func (f *fakeGenerator) Generate(_ context.Context, _ []string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

func testMatchConfig() configs.MatchConfig {
	return configs.MatchConfig{
		BaseScore:     70,
		PerSkillBonus: 5,
		RecencyBonus:  10,
		MaxScore:      95,
		RecencyWindow: 7 * 24 * time.Hour,
	}
}

func testEngine(dir Directory, gen Generator) *Engine {
	e := NewEngine(dir, gen, testMatchConfig())
	e.now = func() time.Time {
		return time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func requester(learn ...string) *store.UserWithSkills {
	return &store.UserWithSkills{
		User:       store.User{ID: "requester", Name: "Alice"},
		SkillNames: learn,
	}
}

func candidate(id string, activeDaysAgo int, teach ...string) store.UserWithSkills {
	lastActive := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC).
		Add(-time.Duration(activeDaysAgo) * 24 * time.Hour)
	return store.UserWithSkills{
		User:       store.User{ID: id, Name: "User " + id, LastActiveAt: lastActive},
		SkillNames: teach,
	}
}

func TestComputeMatchesWorkedExample(t *testing.T) {
	// A wants Python and Guitar. B teaches one of them and is recently active,
	// C teaches two but is stale, D teaches neither.
	dir := &fakeDirectory{
		requester: requester("Python", "Guitar"),
		pool: []store.UserWithSkills{
			candidate("user-b", 2, "Python", "Design"),
			candidate("user-c", 40, "Python", "Guitar", "Design"),
			candidate("user-d", 1, "Design"),
		},
	}
	gen := &fakeGenerator{text: "Start with Python."}

	result, customErr := testEngine(dir, gen).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	require.Len(t, result.Matches, 2)
	assert.Equal(t, "user-b", result.Matches[0].UserID)
	assert.Equal(t, 85, result.Matches[0].Score)
	assert.True(t, result.Matches[0].RecentlyActive)
	assert.Equal(t, []string{"Python"}, result.Matches[0].MatchedSkills)

	assert.Equal(t, "user-c", result.Matches[1].UserID)
	assert.Equal(t, 80, result.Matches[1].Score)
	assert.False(t, result.Matches[1].RecentlyActive)
	assert.Equal(t, []string{"Python", "Guitar"}, result.Matches[1].MatchedSkills)

	assert.Equal(t, "Start with Python.", result.Advice)
	assert.Equal(t, 1, gen.calls)
}

func TestComputeMatchesScoreBounds(t *testing.T) {
	// Even an absurd overlap stays within [base, cap].
	manySkills := make([]string, 20)
	for i := range manySkills {
		manySkills[i] = fmt.Sprintf("Skill%d", i)
	}

	dir := &fakeDirectory{
		requester: requester(manySkills...),
		pool: []store.UserWithSkills{
			candidate("wide", 1, manySkills...),
			candidate("narrow", 100, manySkills[0]),
		},
	}

	result, customErr := testEngine(dir, &fakeGenerator{text: "ok"}).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	for _, m := range result.Matches {
		assert.GreaterOrEqual(t, m.Score, 70, "candidate %s", m.UserID)
		assert.LessOrEqual(t, m.Score, 95, "candidate %s", m.UserID)
	}
	assert.Equal(t, 95, result.Matches[0].Score)
}

func TestComputeMatchesMonotonicity(t *testing.T) {
	// More shared skills never scores lower, recency held fixed.
	dir := &fakeDirectory{
		requester: requester("A", "B", "C"),
		pool: []store.UserWithSkills{
			candidate("one", 100, "A"),
			candidate("two", 100, "A", "B"),
			candidate("three", 100, "A", "B", "C"),
		},
	}

	result, customErr := testEngine(dir, &fakeGenerator{text: "ok"}).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)
	require.Len(t, result.Matches, 3)

	scores := map[string]int{}
	for _, m := range result.Matches {
		scores[m.UserID] = m.Score
	}
	assert.LessOrEqual(t, scores["one"], scores["two"])
	assert.LessOrEqual(t, scores["two"], scores["three"])
}

func TestComputeMatchesDropRule(t *testing.T) {
	dir := &fakeDirectory{
		requester: requester("Python"),
		pool: []store.UserWithSkills{
			candidate("match", 1, "Python"),
			candidate("no-overlap", 1, "Design", "Cooking"),
			candidate("no-skills", 1),
		},
	}

	result, customErr := testEngine(dir, &fakeGenerator{text: "ok"}).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	require.Len(t, result.Matches, 1)
	assert.Equal(t, "match", result.Matches[0].UserID)
}

func TestComputeMatchesRankingAndTieBreak(t *testing.T) {
	// Equal scores fall back to ascending candidate id, so ordering is
	// deterministic regardless of load order.
	dir := &fakeDirectory{
		requester: requester("Python", "Guitar"),
		pool: []store.UserWithSkills{
			candidate("zzz", 1, "Python"),
			candidate("aaa", 1, "Guitar"),
			candidate("mmm", 1, "Python", "Guitar"),
		},
	}

	result, customErr := testEngine(dir, &fakeGenerator{text: "ok"}).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)
	require.Len(t, result.Matches, 3)

	assert.Equal(t, "mmm", result.Matches[0].UserID)
	assert.Equal(t, "aaa", result.Matches[1].UserID)
	assert.Equal(t, "zzz", result.Matches[2].UserID)

	for i := 1; i < len(result.Matches); i++ {
		assert.GreaterOrEqual(t, result.Matches[i-1].Score, result.Matches[i].Score)
	}
}

func TestComputeMatchesAdviceFallbackIndependence(t *testing.T) {
	pool := []store.UserWithSkills{
		candidate("user-b", 2, "Python"),
		candidate("user-c", 40, "Python", "Guitar"),
	}

	okDir := &fakeDirectory{requester: requester("Python", "Guitar"), pool: pool}
	failDir := &fakeDirectory{requester: requester("Python", "Guitar"), pool: pool}

	okResult, customErr := testEngine(okDir, &fakeGenerator{text: "Great advice."}).
		ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	failResult, customErr := testEngine(failDir, &fakeGenerator{err: errors.New("model timeout")}).
		ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	assert.Equal(t, okResult.Matches, failResult.Matches)
	assert.Equal(t, "Great advice.", okResult.Advice)
	assert.Equal(t, "We couldn't generate personalized advice right now. Browse your matches and reach out to someone who teaches what you want to learn.", failResult.Advice)
}

func TestComputeMatchesDefaultsAvatarAndLocation(t *testing.T) {
	dir := &fakeDirectory{
		requester: requester("Python"),
		pool:      []store.UserWithSkills{candidate("bare", 1, "Python")},
	}

	result, customErr := testEngine(dir, &fakeGenerator{text: "ok"}).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)
	require.Len(t, result.Matches, 1)

	assert.Equal(t, DefaultAvatar, result.Matches[0].ProfileImage)
	assert.Equal(t, DefaultLocation, result.Matches[0].Location)
}

func TestComputeMatchesNoLearnSkills(t *testing.T) {
	dir := &fakeDirectory{requester: requester()}
	gen := &fakeGenerator{text: "ok"}

	_, customErr := testEngine(dir, gen).ComputeMatches(context.Background(), "requester")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNoLearnSkills, customErr.Code)
	assert.Equal(t, 0, gen.calls)
}

func TestComputeMatchesRequesterNotFound(t *testing.T) {
	dir := &fakeDirectory{requesterErr: store.ErrNotFound}

	_, customErr := testEngine(dir, &fakeGenerator{}).ComputeMatches(context.Background(), "missing")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUserNotFound, customErr.Code)
}

func TestComputeMatchesEmptyPool(t *testing.T) {
	dir := &fakeDirectory{requester: requester("Python")}

	_, customErr := testEngine(dir, &fakeGenerator{}).ComputeMatches(context.Background(), "requester")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrNoCandidates, customErr.Code)
}

func TestComputeMatchesNoOverlapSkipsAdviceCall(t *testing.T) {
	dir := &fakeDirectory{
		requester: requester("Python"),
		pool:      []store.UserWithSkills{candidate("other", 1, "Design")},
	}
	gen := &fakeGenerator{text: "unused"}

	result, customErr := testEngine(dir, gen).ComputeMatches(context.Background(), "requester")
	require.Nil(t, customErr)

	assert.Empty(t, result.Matches)
	assert.Equal(t, NoMatchesAdvice, result.Advice)
	assert.Equal(t, 0, gen.calls)
}

func TestComputeMatchesDirectoryFailure(t *testing.T) {
	dir := &fakeDirectory{
		requester: requester("Python"),
		poolErr:   errors.New("connection refused"),
	}

	_, customErr := testEngine(dir, &fakeGenerator{}).ComputeMatches(context.Background(), "requester")
	require.NotNil(t, customErr)
	assert.Equal(t, errs.ErrUnknown, customErr.Code)
}

func TestEmptyResultSentinel(t *testing.T) {
	sentinel := EmptyResult()

	assert.NotNil(t, sentinel.Matches)
	assert.Empty(t, sentinel.Matches)
	assert.Equal(t, NoMatchesAdvice, sentinel.Advice)
}
