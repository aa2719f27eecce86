package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-openapi/strfmt"

	"notarycalc/internal/entity"
	"notarycalc/internal/fees"
)

// UnknownName labels calculations without a client name.
const UnknownName = "לא ידוע"

const topN = 5

// analyticsRanges maps a range name to the number of months before the current one.
var analyticsRanges = map[string]int{
	"3months":  3,
	"6months":  6,
	"12months": 12,
}

// DefaultAnalyticsRange is used when the caller gives none.
const DefaultAnalyticsRange = "6months"

type MonthPoint struct {
	Month   string     `json:"month"`
	Revenue fees.Money `json:"revenue"`
	Count   int        `json:"count"`
}

type ClientRevenue struct {
	Name    string     `json:"name"`
	Revenue fees.Money `json:"revenue"`
}

type ServiceCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type KPIs struct {
	TotalRevenue          fees.Money `json:"total_revenue"`
	ThisMonthRevenue      fees.Money `json:"this_month_revenue"`
	TotalCalculations     int        `json:"total_calculations"`
	ThisMonthCalculations int        `json:"this_month_calculations"`
	AverageCalculation    fees.Money `json:"average_calculation"`
}

// AnalyticsSummary — everything the analytics page renders
type AnalyticsSummary struct {
	Range       string          `json:"range"`
	Monthly     []MonthPoint    `json:"monthly"`
	TopClients  []ClientRevenue `json:"top_clients"`
	TopServices []ServiceCount  `json:"top_services"`
	KPIs        KPIs            `json:"kpis"`
}

// Analytics reduces calculation history in memory
type Analytics struct {
	Cr CalculationRepository
}

func NewAnalytics(cr CalculationRepository) *Analytics {
	return &Analytics{Cr: cr}
}

// Summary builds the monthly series for the range plus all-time rankings and KPIs
func (s *Analytics) Summary(ctx context.Context, userID strfmt.UUID, rangeName string, now time.Time) (*AnalyticsSummary, error) {
	if !validID(userID) {
		return nil, ErrUnauthorized
	}
	if rangeName == "" {
		rangeName = DefaultAnalyticsRange
	}
	months, ok := analyticsRanges[rangeName]
	if !ok {
		return nil, fmt.Errorf("%w: unknown range %q", ErrInvalidPeriod, rangeName)
	}

	calcs, err := s.Cr.CalculationsSince(ctx, userID, time.Time{})
	if err != nil {
		return nil, err
	}
	return Summarize(calcs, rangeName, months, now), nil
}

// Summarize is the pure reduction behind Summary
func Summarize(calcs []*entity.Calculation, rangeName string, months int, now time.Time) *AnalyticsSummary {
	now = now.UTC()
	current := monthStart(now)

	out := &AnalyticsSummary{
		Range:   rangeName,
		Monthly: make([]MonthPoint, 0, months+1),
	}
	index := make(map[time.Time]int, months+1)
	for m := current.AddDate(0, -months, 0); !m.After(current); m = m.AddDate(0, 1, 0) {
		index[m] = len(out.Monthly)
		out.Monthly = append(out.Monthly, MonthPoint{Month: m.Format("Jan 2006")})
	}

	clients := map[string]fees.Money{}
	services := map[string]int{}
	for _, c := range calcs {
		m := monthStart(c.CreatedAt)
		if i, ok := index[m]; ok && !c.CreatedAt.After(now) {
			out.Monthly[i].Revenue += c.Total
			out.Monthly[i].Count++
		}
		if m.Equal(current) {
			out.KPIs.ThisMonthRevenue += c.Total
			out.KPIs.ThisMonthCalculations++
		}
		out.KPIs.TotalRevenue += c.Total
		out.KPIs.TotalCalculations++

		name := c.ClientName
		if name == "" {
			name = UnknownName
		}
		clients[name] += c.Total

		for _, l := range c.Services {
			svc := l.Description
			if svc == "" {
				svc = string(l.Type)
			}
			if svc == "" {
				svc = UnknownName
			}
			services[svc]++
		}
	}

	if n := int64(out.KPIs.TotalCalculations); n > 0 {
		out.KPIs.AverageCalculation = fees.Money((int64(out.KPIs.TotalRevenue)*2 + n) / (2 * n))
	}

	out.TopClients = make([]ClientRevenue, 0, len(clients))
	for name, rev := range clients {
		out.TopClients = append(out.TopClients, ClientRevenue{Name: name, Revenue: rev})
	}
	sort.Slice(out.TopClients, func(i, j int) bool {
		a, b := out.TopClients[i], out.TopClients[j]
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.Name < b.Name
	})
	if len(out.TopClients) > topN {
		out.TopClients = out.TopClients[:topN]
	}

	out.TopServices = make([]ServiceCount, 0, len(services))
	for name, n := range services {
		out.TopServices = append(out.TopServices, ServiceCount{Name: name, Count: n})
	}
	sort.Slice(out.TopServices, func(i, j int) bool {
		a, b := out.TopServices[i], out.TopServices[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(out.TopServices) > topN {
		out.TopServices = out.TopServices[:topN]
	}
	return out
}
