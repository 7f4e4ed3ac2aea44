package workflows

import (
	"github.com/clintrovert/scopesync/pkg/types"
)

// SynthesisInput is the input for the synthesis workflow. It carries the
// project reference, never its credentials.
type SynthesisInput struct {
	ProjectID string
	Analysis  types.Analysis
}
