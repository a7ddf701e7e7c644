package brief

import (
	"errors"
	"fmt"

	"boardbrief/internal/core"
)

// ErrNoArticles is returned when an analysis is requested with an empty
// article batch.
var ErrNoArticles = errors.New("no articles to analyze")

// InsufficientYieldError reports an analysis batch whose usable item
// count fell below the acceptance threshold. The items recovered so far
// ride along so callers can decide whether to surface partial output.
type InsufficientYieldError struct {
	Expected int
	Got      int
	Items    []core.BriefItem
}

func (e *InsufficientYieldError) Error() string {
	return fmt.Sprintf("analysis yielded %d of %d expected summaries", e.Got, e.Expected)
}
