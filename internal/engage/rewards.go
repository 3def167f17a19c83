package engage

import "slices"

// UnlockReward adds a reward id to the list unless already present.
// Re-applying the same unlock is a no-op, not an error.
func UnlockReward(rewards []string, id string) []string {
	if slices.Contains(rewards, id) {
		return rewards
	}
	out := make([]string, len(rewards), len(rewards)+1)
	copy(out, rewards)
	return append(out, id)
}
