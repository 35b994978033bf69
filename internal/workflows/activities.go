package workflows

import (
	"context"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/samirrijal/urbanscope/internal/core/domain"
)

// RegionAnalyzer is the slice of usecases.RegionService the survey needs.
type RegionAnalyzer interface {
	Analyze(ctx context.Context, corners [][]float64) (*domain.RegionReport, error)
}

// SurveyActivities holds the activity implementations for the survey workflow.
type SurveyActivities struct {
	Regions RegionAnalyzer
}

// AnalyzeRegion runs one region analysis. Failures are returned as
// non-retryable application errors typed by error kind.
func (a *SurveyActivities) AnalyzeRegion(ctx context.Context, region SurveyRegion) (*domain.RegionReport, error) {
	activity.GetLogger(ctx).Info("Analyzing region", "region", region.Name)

	report, err := a.Regions.Analyze(ctx, region.Bounds)
	if err != nil {
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), domain.ErrorKind(err), nil)
	}
	return report, nil
}
