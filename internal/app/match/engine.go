/*
Package match implements the skill-matching engine.

Given a requesting user, it finds every other user whose taught skills overlap
the requester's want-to-learn skills, computes a bounded score per candidate,
ranks them, and attaches a natural-language advice string from the text
generation service. The computation is pure request/response: nothing is
cached or persisted, and the advice call can fail without affecting the list.
*/
package match

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"skillswap/internal/app/advice"
	"skillswap/internal/app/store"
	"skillswap/internal/configs"
	"skillswap/internal/pkg/errs"
	"skillswap/internal/pkg/logx"
)

const (
	// DefaultAvatar is substituted when a candidate has no avatar set.
	DefaultAvatar = "/images/default-avatar.png"

	// DefaultLocation is substituted when a candidate has no location set.
	DefaultLocation = "Unknown"

	// NoMatchesAdvice is the advice string returned alongside an empty match list.
	NoMatchesAdvice = "No matches found"
)

// Directory is the read-only view of the user directory the engine depends on.
// The persistence store satisfies it; tests swap in an in-memory fake.
type Directory interface {
	GetUserWithSkills(ctx context.Context, userID string, kind store.SkillKind) (*store.UserWithSkills, error)
	ListOthersWithSkills(ctx context.Context, excludeID string, kind store.SkillKind) ([]store.UserWithSkills, error)
}

// Generator produces the advice string. Failures are recovered locally with a
// fallback, never propagated.
type Generator interface {
	Generate(ctx context.Context, learnSkills []string) (string, error)
}

// Candidate is one ranked match, constructed fresh per request and never persisted.
type Candidate struct {
	UserID         string   `json:"_id"`
	Name           string   `json:"name"`
	ProfileImage   string   `json:"profileImage"`
	Location       string   `json:"location"`
	MatchedSkills  []string `json:"matchedSkills"`
	Score          int      `json:"matchScore"`
	RecentlyActive bool     `json:"recentlyActive"`
}

// Result is the full outcome of one match computation.
type Result struct {
	Matches []Candidate `json:"matches"`
	Advice  string      `json:"aiAdvice"`
}

// EmptyResult is the sentinel aggregate callers substitute when matching fails,
// so composite endpoints degrade instead of failing wholesale.
func EmptyResult() *Result {
	return &Result{Matches: []Candidate{}, Advice: NoMatchesAdvice}
}

// Engine computes ranked skill matches.
type Engine struct {
	dir    Directory
	gen    Generator
	cfg    configs.MatchConfig
	now    func() time.Time
	logger zerolog.Logger
}

// NewEngine constructs an Engine with the given directory, generator, and scoring constants.
func NewEngine(dir Directory, gen Generator, cfg configs.MatchConfig) *Engine {
	return &Engine{
		dir:    dir,
		gen:    gen,
		cfg:    cfg,
		now:    time.Now,
		logger: logx.Logger().With().Str("component", "MatchEngine").Logger(),
	}
}

// ComputeMatches runs the full match computation for the requesting user.
//
// The ranked list is the primary value: the advice call happens after ranking
// and its failure substitutes the fixed fallback string rather than erroring.
func (e *Engine) ComputeMatches(ctx context.Context, userID string) (*Result, *errs.CustomError) {
	requester, err := e.dir.GetUserWithSkills(ctx, userID, store.SkillKindLearn)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errs.NewError(errs.ErrUserNotFound)
		}
		e.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load requesting user.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if len(requester.SkillNames) == 0 {
		return nil, errs.NewError(errs.ErrNoLearnSkills)
	}

	pool, err := e.dir.ListOthersWithSkills(ctx, userID, store.SkillKindTeach)
	if err != nil {
		e.logger.Error().Err(err).Str("user_id", userID).Msg("Failed to load candidate pool.")
		return nil, errs.NewError(errs.ErrUnknown)
	}

	if len(pool) == 0 {
		return nil, errs.NewError(errs.ErrNoCandidates)
	}

	now := e.now()
	matches := e.rank(requester.SkillNames, pool, now)

	result := &Result{Matches: matches}

	if len(matches) == 0 {
		result.Advice = NoMatchesAdvice
		return result, nil
	}

	result.Advice = e.generateAdvice(ctx, requester.SkillNames)

	return result, nil
}

// rank scores every candidate with a non-empty skill intersection and returns
// them sorted by score descending, ties broken by ascending candidate id so
// the ordering is deterministic.
func (e *Engine) rank(wanted []string, pool []store.UserWithSkills, now time.Time) []Candidate {
	wantedSet := make(map[string]struct{}, len(wanted))
	for _, name := range wanted {
		wantedSet[name] = struct{}{}
	}

	matches := make([]Candidate, 0, len(pool))

	for _, candidate := range pool {
		var shared []string
		for _, taught := range candidate.SkillNames {
			if _, ok := wantedSet[taught]; ok {
				shared = append(shared, taught)
			}
		}

		// Candidates with no overlap are dropped entirely; no zero-score entries.
		if len(shared) == 0 {
			continue
		}

		recent := candidate.LastActiveAt.After(now.Add(-e.cfg.RecencyWindow))

		matches = append(matches, Candidate{
			UserID:         candidate.ID,
			Name:           candidate.Name,
			ProfileImage:   orDefault(candidate.AvatarURL, DefaultAvatar),
			Location:       orDefault(candidate.Location, DefaultLocation),
			MatchedSkills:  shared,
			Score:          e.score(len(shared), recent),
			RecentlyActive: recent,
		})
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].UserID < matches[j].UserID
	})

	return matches
}

// score computes the bounded match score. The base rewards any overlap at all,
// the per-skill bonus rewards breadth, the recency bonus prioritizes currently
// engaged users, and the cap keeps every score short of a perfect match.
func (e *Engine) score(sharedCount int, recentlyActive bool) int {
	score := e.cfg.BaseScore + e.cfg.PerSkillBonus*sharedCount
	if recentlyActive {
		score += e.cfg.RecencyBonus
	}
	if score > e.cfg.MaxScore {
		score = e.cfg.MaxScore
	}
	return score
}

// generateAdvice asks the text-generation service once, substituting the fixed
// fallback on any failure. Never retried, never fatal to the match request.
func (e *Engine) generateAdvice(ctx context.Context, wanted []string) string {
	text, err := e.gen.Generate(ctx, wanted)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Advice generation failed, using fallback.")
		return advice.FallbackAdvice
	}
	return text
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
