package service

import (
	"math"

	appErrors "github.com/unclebandit/marketdesk-backend/internal/errors"
	"github.com/unclebandit/marketdesk-backend/internal/model"
	"github.com/unclebandit/marketdesk-backend/internal/repository"
)

const defaultAnalyticsPeriod = 30

// DashboardService serves the fixed overview and analytics figures.
type DashboardService struct {
	Snapshots repository.SnapshotRepositoryInterface
}

func (s *DashboardService) Dashboard() model.Dashboard {
	return s.Snapshots.Dashboard()
}

func (s *DashboardService) Navigation() []model.NavItem {
	return s.Snapshots.Dashboard().Navigation
}

// Analytics returns the analytics view for a period of 7, 30 or 90 days;
// 0 selects the default of 30.
func (s *DashboardService) Analytics(period int) (*model.Analytics, error) {
	if period == 0 {
		period = defaultAnalyticsPeriod
	}
	switch period {
	case 7, 30, 90:
	default:
		return nil, appErrors.NewValidation("period", "period must be one of: 7, 30, 90")
	}

	a := s.Snapshots.Analytics()
	a.Period = period
	if len(a.PageViews) > period {
		a.PageViews = a.PageViews[len(a.PageViews)-period:]
	}
	a.BehaviorFlow = withDropOff(a.BehaviorFlow)
	return &a, nil
}

// withDropOff fills in the share of users lost since the previous step, in
// percent with one decimal.
func withDropOff(steps []model.FunnelStep) []model.FunnelStep {
	for i := range steps {
		steps[i].DropOff = 0
		if i == 0 {
			continue
		}
		prev := steps[i-1].Users
		if prev <= 0 {
			continue
		}
		lost := float64(prev-steps[i].Users) / float64(prev) * 100
		steps[i].DropOff = math.Round(lost*10) / 10
	}
	return steps
}
