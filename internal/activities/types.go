package activities

import (
	"github.com/clintrovert/scopesync/pkg/types"
)

// SynthesisRequest is the input of the synthesis activity
type SynthesisRequest struct {
	ProjectID string
	Analysis  types.Analysis
}
