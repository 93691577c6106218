package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"datasetprep/config"
	"datasetprep/logging"

	"github.com/pkg/errors"
)

// ErrCollision is returned when two sources map to one output under the fail policy
var ErrCollision = errors.New("output path collision")

// outputTracker remembers which source claimed each output path in one pass
type outputTracker struct {
	policy  config.CollisionPolicy
	claimed map[string]string
}

func newOutputTracker(policy config.CollisionPolicy) *outputTracker {
	return &outputTracker{policy: policy, claimed: make(map[string]string)}
}

// claim returns the path src should be written to under the policy
func (t *outputTracker) claim(src, out string) (string, error) {
	prev, taken := t.claimed[out]
	if !taken {
		t.claimed[out] = src
		return out, nil
	}

	switch t.policy {
	case config.CollisionOverwrite:
	case config.CollisionWarn:
		logging.LogWarning("%s overwrites %s (written from %s)", src, out, prev)
	case config.CollisionFail:
		return "", errors.Wrapf(ErrCollision, "%s and %s both map to %s", prev, src, out)
	case config.CollisionSuffix:
		ext := filepath.Ext(out)
		stem := strings.TrimSuffix(out, ext)
		for i := 1; ; i++ {
			candidate := fmt.Sprintf("%s_%d%s", stem, i, ext)
			if _, used := t.claimed[candidate]; !used {
				t.claimed[candidate] = src
				logging.DebugLog("%s renamed to %s to avoid %s", src, candidate, out)
				return candidate, nil
			}
		}
	}
	t.claimed[out] = src
	return out, nil
}
