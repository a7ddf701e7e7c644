// Package tailor reframes board-approved brief items for individual
// departments and screens department proposals coming back.
package tailor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"boardbrief/internal/core"
	"boardbrief/internal/departments"
	"boardbrief/internal/llm"
	"boardbrief/internal/logger"
)

const (
	summaryLines    = 4
	maxActions      = 6
	maxResponsibs   = 4
	strategyCtxCap  = 1200
	tailorTemp      = 0.1
	tailorMaxTokens = 800
)

// ErrUnknownDepartment is returned when a tailoring request names a
// department that is not in the registry.
var ErrUnknownDepartment = fmt.Errorf("unknown department")

// Tailorer produces department-specific operational summaries.
type Tailorer struct {
	completer llm.Completer
}

// NewTailorer creates a Tailorer backed by the given completer.
func NewTailorer(completer llm.Completer) *Tailorer {
	return &Tailorer{completer: completer}
}

// Tailor rewrites an approved item's summary for one department. The
// output is at most four lines, grounded only in the item's own summary
// and why-it-matters text plus the board-approved actions.
func (t *Tailorer) Tailor(ctx context.Context, item core.BriefItem, deptID departments.ID, actions []string, strategyContext string) (string, error) {
	dept, ok := departments.Get(deptID)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownDepartment, deptID)
	}

	if len(actions) > maxActions {
		actions = actions[:maxActions]
	}
	responsibilities := dept.Responsibilities
	if len(responsibilities) > maxResponsibs {
		responsibilities = responsibilities[:maxResponsibs]
	}
	if len(strategyContext) > strategyCtxCap {
		strategyContext = strategyContext[:strategyCtxCap]
	}

	system := fmt.Sprintf(`You are generating a department-tailored operational summary for a food company. The summary must be FAITHFUL to the article information provided (do not invent), but framed for the target department's role and the board-approved actions, aligning with the company strategy context.

Constraints:
- Use concise, actionable, business-oriented language
- %d lines total
- No speculation; only what is supported by the article summary/why_it_matters
- Explicitly connect to department responsibilities and the provided actions

Department: %s
Responsibilities focus: %s
Board-approved actions for this department (if any): %s
Company strategy context (if provided): %s

Article title: %s
Source: %s
Link: %s
Why it matters (board): %s
Article summary (faithful): %s

Return ONLY the %d-line tailored summary.`,
		summaryLines,
		dept.Name,
		orDash(strings.Join(responsibilities, "; ")),
		orDash(strings.Join(actions, "; ")),
		orDash(strategyContext),
		item.Title,
		item.Source,
		item.Link,
		orDash(item.WhyItMatters),
		orDash(item.ArticleSummary),
		summaryLines,
	)

	raw, err := t.completer.Complete(ctx, llm.Request{
		System:      system,
		User:        fmt.Sprintf("Produce the %d-line department-tailored summary now.", summaryLines),
		Temperature: tailorTemp,
		MaxTokens:   tailorMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("tailoring call for %s failed: %w", deptID, err)
	}

	trimmed := clampLines(raw, summaryLines)
	if trimmed == "" {
		return strings.TrimSpace(raw), nil
	}
	return trimmed, nil
}

// Dispatch is one department-bound copy of an approved item.
type Dispatch struct {
	DepartmentID    departments.ID `json:"department_id"`
	Item            core.BriefItem `json:"item"`
	TailoredSummary string         `json:"tailored_summary"`
	Tailored        bool           `json:"tailored"`
	ApprovedAt      time.Time      `json:"approved_at"`
}

// Distribute fans an approved item out to every relevant department,
// tailoring each copy concurrently. A department whose tailoring call
// fails still receives the item, carrying the untailored board summary.
func (t *Tailorer) Distribute(ctx context.Context, item core.BriefItem, strategyContext string) []Dispatch {
	ids := item.RelevantDepartments
	if len(ids) == 0 {
		return nil
	}
	approvedAt := time.Now().UTC()

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	dispatches := make([]Dispatch, 0, len(ids))

	for _, id := range ids {
		wg.Add(1)
		go func(deptID departments.ID) {
			defer wg.Done()

			d := Dispatch{
				DepartmentID:    deptID,
				Item:            item,
				TailoredSummary: item.ArticleSummary,
				ApprovedAt:      approvedAt,
			}
			summary, err := t.Tailor(ctx, item, deptID, item.StrategicActions[string(deptID)], strategyContext)
			if err != nil {
				logger.Error("tailoring failed, dispatching board summary", err,
					"department", deptID, "title", item.Title)
			} else if summary != "" {
				d.TailoredSummary = summary
				d.Tailored = true
			}

			mu.Lock()
			dispatches = append(dispatches, d)
			mu.Unlock()
		}(departments.ID(id))
	}
	wg.Wait()

	return dispatches
}

func clampLines(text string, n int) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	kept := make([]string, 0, n)
	for _, l := range lines {
		if len(kept) >= n {
			break
		}
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
