package quiz

import (
	"fmt"
	"math/rand"
	"sort"

	"github.com/abhisek/qbank/internal/corpus"
	"github.com/abhisek/qbank/internal/extract"
	"github.com/abhisek/qbank/internal/store"
)

// PolicyKind names a question selection policy.
type PolicyKind string

const (
	// PolicyRandom draws uniformly without replacement.
	PolicyRandom PolicyKind = "random"

	// PolicyWeakness prioritizes questions whose tags have the lowest
	// historical correct-rate.
	PolicyWeakness PolicyKind = "weakness-weighted"

	// PolicyCategoryLocked restricts draws to a single category.
	PolicyCategoryLocked PolicyKind = "category-locked"
)

// ParsePolicyKind validates a policy name.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch PolicyKind(s) {
	case PolicyRandom, PolicyWeakness, PolicyCategoryLocked:
		return PolicyKind(s), nil
	}
	return "", fmt.Errorf("unknown policy %q", s)
}

// Policy is the selection rule snapshot a session is created with.
type Policy struct {
	Kind PolicyKind

	// Category is required for category-locked sessions and optionally
	// narrows the other policies.
	Category string

	// Limit caps the queue length; 0 means all eligible questions.
	Limit int

	// Seed fixes the shuffle order for reproducible sessions; 0 means
	// draw a time-based seed.
	Seed int64
}

// neutralAccuracy is assumed for tags with no recorded history, so new
// material sorts between known-weak and known-strong tags.
const neutralAccuracy = 0.5

// buildQueue materializes the question queue for a new session.
func buildQueue(idx *corpus.Index, p Policy, tagStats map[string]store.TagStats, rng *rand.Rand) ([]string, error) {
	var pool []extract.Question
	if p.Category != "" {
		var err error
		pool, err = idx.ByCategory(p.Category)
		if err != nil {
			return nil, err
		}
	} else {
		pool = idx.Questions()
	}

	ids := make([]string, len(pool))
	for i, q := range pool {
		ids[i] = q.ID
	}

	switch p.Kind {
	case PolicyRandom, PolicyCategoryLocked:
		rng.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
	case PolicyWeakness:
		sortByWeakness(pool, ids, tagStats)
	default:
		return nil, fmt.Errorf("unknown policy %q", p.Kind)
	}

	if p.Limit > 0 && p.Limit < len(ids) {
		ids = ids[:p.Limit]
	}
	return ids, nil
}

// sortByWeakness orders ids by ascending mean tag accuracy, weakest
// first, ties broken by ascending id for determinism.
func sortByWeakness(pool []extract.Question, ids []string, tagStats map[string]store.TagStats) {
	acc := make(map[string]float64, len(pool))
	for _, q := range pool {
		acc[q.ID] = meanTagAccuracy(q, tagStats)
	}
	sort.Slice(ids, func(i, j int) bool {
		if acc[ids[i]] != acc[ids[j]] {
			return acc[ids[i]] < acc[ids[j]]
		}
		return ids[i] < ids[j]
	})
}

func meanTagAccuracy(q extract.Question, tagStats map[string]store.TagStats) float64 {
	if len(q.Tags) == 0 {
		return neutralAccuracy
	}
	var sum float64
	for _, tag := range q.Tags {
		if st, ok := tagStats[tag]; ok && st.Total > 0 {
			sum += st.Accuracy
		} else {
			sum += neutralAccuracy
		}
	}
	return sum / float64(len(q.Tags))
}
