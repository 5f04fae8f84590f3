package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RewardCeiling is the hard cap applied to a task's reward at consumption
// time. Tasks may store larger values (custom edits are untrusted); the cap
// is applied when the reward is granted, never at creation.
const RewardCeiling = 1_000_000

// ErrNegativeReward is returned for tasks whose stored reward is negative.
var ErrNegativeReward = errors.New("task reward must be non-negative")

// Contributor identifies the member credited in the clan feed for a
// completed task.
type Contributor struct {
	ID        string
	Name      string
	AvatarURL string
}

// Completion is the result of consuming a completed task. Clan is nil when
// the user has no clan; otherwise it is a new snapshot with quest progress
// and feed applied.
type Completion struct {
	// CappedReward is the minutes actually granted, after the ceiling.
	CappedReward int
	// Capped reports whether the raw reward exceeded the ceiling.
	Capped bool
	// XPBonus is the sum of rewards from clan quests completed by this
	// contribution.
	XPBonus int
	// ClanMessage announces a clan quest completion. When several quests
	// complete in the same contribution only the last is announced; each
	// still pays its bonus exactly once.
	ClanMessage string
	// Clan is the updated clan snapshot, or nil if there was none.
	Clan *Clan
	// History is the record to append to the completion history.
	History HistoryItem
}

// ComputeCompletion applies a completed task to the optional clan and
// produces the reward, clan-quest deltas, and history record. Inputs are
// never mutated.
//
// Every active quest receives the capped reward as progress. A quest whose
// progress crosses from below target to at-or-above target in this step
// transitions to completed and pays its reward into XPBonus; a quest already
// completed is skipped, so the one-time bonus can never re-fire.
func ComputeCompletion(task Task, clan *Clan, who Contributor, now time.Time) (Completion, error) {
	if task.RewardMinutes < 0 {
		return Completion{}, fmt.Errorf("%w: task %q has reward %d", ErrNegativeReward, task.ID, task.RewardMinutes)
	}

	reward := task.RewardMinutes
	capped := false
	if reward > RewardCeiling {
		reward = RewardCeiling
		capped = true
	}

	out := Completion{
		CappedReward: reward,
		Capped:       capped,
		History: HistoryItem{
			ID:            uuid.NewString(),
			TaskID:        task.ID,
			TaskTitle:     task.Title,
			CompletedAt:   now,
			RewardMinutes: reward,
		},
	}

	if clan == nil {
		return out, nil
	}

	next := clan.Clone()
	for i := range next.Quests {
		q := &next.Quests[i]
		if q.Status != QuestActive {
			continue
		}
		before := q.Progress
		q.Progress += reward
		if before < q.Target && q.Progress >= q.Target {
			q.Status = QuestCompleted
			out.XPBonus += q.RewardMinutes
			out.ClanMessage = fmt.Sprintf("Clan Quest %q Completed! +%d Minutes", q.Title, q.RewardMinutes)
		}
	}

	entry := ClanFeedItem{
		ID:         uuid.NewString(),
		MemberID:   who.ID,
		MemberName: who.Name,
		Action:     fmt.Sprintf("earned %dm", reward),
		Timestamp:  now.Format(time.RFC3339),
		AvatarURL:  who.AvatarURL,
	}
	next.Feed = append([]ClanFeedItem{entry}, next.Feed...)
	if len(next.Feed) > FeedLimit {
		next.Feed = next.Feed[:FeedLimit]
	}
	next.UserContribution += reward

	out.Clan = &next
	return out, nil
}

// CompletionMessage returns the notification text for a granted reward.
func CompletionMessage(cappedReward int) string {
	return fmt.Sprintf("Congrats! You finished a journey and won %d minutes.", cappedReward)
}

// CapNotice is the notification shown when a reward was clamped to the ceiling.
func CapNotice() string {
	return "Reward capped at 1,000,000 minutes."
}
