package workflows

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// SurveyRegion is one named bounding box in a survey.
type SurveyRegion struct {
	Name   string      `json:"name"`
	Bounds [][]float64 `json:"bounds"`
}

// SurveyInput is the input for the region survey workflow.
type SurveyInput struct {
	SurveyID string         `json:"survey_id"`
	Regions  []SurveyRegion `json:"regions"`
}

// SurveyEntry is the outcome for one region. Exactly one of Report and
// Error is set.
type SurveyEntry struct {
	Name      string               `json:"name"`
	Report    *domain.RegionReport `json:"report,omitempty"`
	Error     string               `json:"error,omitempty"`
	ErrorKind string               `json:"error_kind,omitempty"`
}

// SurveyResult lists entries in input order.
type SurveyResult struct {
	SurveyID string        `json:"survey_id"`
	Entries  []SurveyEntry `json:"entries"`
	Failed   int           `json:"failed"`
}

// RegionSurveyWorkflow analyzes every region of the survey as a parallel
// activity. Activities are attempted once; a failed region is recorded in
// its entry and does not fail the survey.
func RegionSurveyWorkflow(ctx workflow.Context, input SurveyInput) (*SurveyResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting region survey", "surveyID", input.SurveyID, "regions", len(input.Regions))

	actOpts := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	ctx = workflow.WithActivityOptions(ctx, actOpts)

	futures := make([]workflow.Future, len(input.Regions))
	for i, r := range input.Regions {
		futures[i] = workflow.ExecuteActivity(ctx, "AnalyzeRegion", r)
	}

	result := &SurveyResult{SurveyID: input.SurveyID, Entries: make([]SurveyEntry, len(input.Regions))}
	for i, f := range futures {
		entry := SurveyEntry{Name: input.Regions[i].Name}

		var report domain.RegionReport
		if err := f.Get(ctx, &report); err != nil {
			entry.Error, entry.ErrorKind = describe(err)
			result.Failed++
			logger.Warn("region analysis failed", "region", entry.Name, "error", entry.Error)
		} else {
			entry.Report = &report
		}
		result.Entries[i] = entry
	}

	logger.Info("Region survey finished", "surveyID", input.SurveyID, "failed", result.Failed)
	return result, nil
}

func describe(err error) (msg, kind string) {
	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) {
		return appErr.Error(), appErr.Type()
	}
	return err.Error(), domain.ErrorKind(err)
}
