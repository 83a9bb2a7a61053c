package repository

import (
	"github.com/unclebandit/marketdesk-backend/internal/model"
)

type SnapshotRepositoryInterface interface {
	Dashboard() model.Dashboard
	Analytics() model.Analytics
}

// SnapshotRepository serves the read-only dashboard and analytics figures.
type SnapshotRepository struct {
	dashboard model.Dashboard
	analytics model.Analytics
}

func NewSnapshotRepository(dashboard model.Dashboard, analytics model.Analytics) *SnapshotRepository {
	return &SnapshotRepository{dashboard: dashboard, analytics: analytics}
}

func (r *SnapshotRepository) Dashboard() model.Dashboard {
	d := r.dashboard
	d.Metrics = append([]model.MetricCard(nil), d.Metrics...)
	d.Traffic = copyPoints(d.Traffic)
	d.Sources = append([]model.Share(nil), d.Sources...)
	d.Conversions = append([]model.Share(nil), d.Conversions...)
	d.Recommendations = append([]model.Recommendation(nil), d.Recommendations...)
	d.Navigation = append([]model.NavItem(nil), d.Navigation...)
	return d
}

func (r *SnapshotRepository) Analytics() model.Analytics {
	a := r.analytics
	a.Metrics = append([]model.MetricCard(nil), a.Metrics...)
	a.PageViews = copyPoints(a.PageViews)
	a.TopPages = append([]model.PageStat(nil), a.TopPages...)
	a.Devices = append([]model.Share(nil), a.Devices...)
	a.BehaviorFlow = append([]model.FunnelStep(nil), a.BehaviorFlow...)
	return a
}

func copyPoints(in []model.Point) []model.Point {
	out := make([]model.Point, len(in))
	for i, p := range in {
		values := make(map[string]int, len(p.Values))
		for k, v := range p.Values {
			values[k] = v
		}
		out[i] = model.Point{Label: p.Label, Values: values}
	}
	return out
}

var _ SnapshotRepositoryInterface = (*SnapshotRepository)(nil)
