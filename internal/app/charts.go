package app

import (
	"github.com/go-gota/gota/dataframe"

	"bookinsight/internal/domain"
)

// Dashboard tabs, in display order.
const (
	TabOverview  = "overview"
	TabADR       = "adr"
	TabCustomers = "customers"
	TabRevenue   = "revenue"
	TabExtras    = "extras"
)

type Tab struct {
	ID    string
	Title string
}

func Tabs() []Tab {
	return []Tab{
		{TabOverview, "Overview"},
		{TabADR, "ADR Insights"},
		{TabCustomers, "Booking & Customer Insights"},
		{TabRevenue, "Cancellation & Revenue"},
		{TabExtras, "Special Requests & Parking"},
	}
}

type chartSpec struct {
	Title   string
	Tab     string
	Kind    string
	Caption string
	Build   func(df dataframe.DataFrame) (domain.Table, error)
}

// chartOrder fixes catalog and page ordering.
var chartOrder = []string{
	"bookings_by_hotel", "bookings_by_year", "top_countries",
	"adr_distribution", "adr_by_hotel", "adr_monthly",
	"adr_by_customer_type", "adr_by_channel", "adr_by_room_type",
	"lead_time_distribution", "stay_duration", "customer_types",
	"market_segments", "repeat_guests", "room_upgrades",
	"cancellation_by_hotel", "cancellation_monthly",
	"revenue_monthly", "revenue_by_segment",
	"special_requests", "parking_spaces", "children_babies",
	"top_agents", "reservation_status",
}

var charts = map[string]chartSpec{
	"bookings_by_hotel": {
		Title:   "Bookings by Hotel Type",
		Tab:     TabOverview,
		Kind:    domain.KindBar,
		Caption: "Booking volume for each hotel type. Use it to spot trends in demand.",
		Build:   countChart(domain.ColHotel, "bookings", sortByLabel),
	},
	"bookings_by_year": {
		Title:   "Bookings Over Years",
		Tab:     TabOverview,
		Kind:    domain.KindMultiBar,
		Caption: "Year-wise bookings per hotel type help track growth or seasonality patterns.",
		Build: func(df dataframe.DataFrame) (domain.Table, error) {
			labels, ser, err := pivot(df, domain.ColArrivalYear, domain.ColHotel, dataframe.Aggregation_COUNT, domain.ColADR, sortByNumericLabel)
			if err != nil {
				return domain.Table{}, err
			}
			return domain.Table{Dimension: domain.ColArrivalYear, Metric: "bookings", Labels: labels, Series: ser}, nil
		},
	},
	"top_countries": {
		Title:   "Top 10 Countries by Booking Volume",
		Tab:     TabOverview,
		Kind:    domain.KindHBar,
		Caption: "See which source markets are most important for your business.",
		Build:   countTopChart(domain.ColCountry, "bookings", 10),
	},
	"adr_distribution": {
		Title:   "Distribution of ADR",
		Tab:     TabADR,
		Kind:    domain.KindHist,
		Caption: "How ADR is distributed. Check for pricing clusters or outliers.",
		Build:   histChart(domain.ColADR, "bookings", 30),
	},
	"adr_by_hotel": {
		Title:   "ADR by Hotel Type",
		Tab:     TabADR,
		Kind:    domain.KindBar,
		Caption: "How pricing differs between hotel types.",
		Build:   meanChart(domain.ColHotel, domain.ColADR, "mean_adr", sortByLabel),
	},
	"adr_monthly": {
		Title:   "ADR Over Time (by Month & Year)",
		Tab:     TabADR,
		Kind:    domain.KindMultiLine,
		Caption: "Seasonal patterns in ADR across months, one line per year.",
		Build: func(df dataframe.DataFrame) (domain.Table, error) {
			labels, ser, err := pivot(df, domain.ColArrivalMonth, domain.ColArrivalYear, dataframe.Aggregation_MEAN, domain.ColADR, sortByMonth)
			if err != nil {
				return domain.Table{}, err
			}
			return domain.Table{Dimension: domain.ColArrivalMonth, Metric: "mean_adr", Labels: labels, Series: ser}, nil
		},
	},
	"adr_by_customer_type": {
		Title:   "ADR by Customer Type",
		Tab:     TabADR,
		Kind:    domain.KindBar,
		Caption: "How pricing varies for different segments of guests.",
		Build:   meanChart(domain.ColCustomerType, domain.ColADR, "mean_adr", sortByLabel),
	},
	"adr_by_channel": {
		Title:   "ADR by Distribution Channel",
		Tab:     TabADR,
		Kind:    domain.KindBar,
		Caption: "Which sales channels yield higher or lower average daily rates.",
		Build:   meanChart(domain.ColDistributionChannel, domain.ColADR, "mean_adr", sortByLabel),
	},
	"adr_by_room_type": {
		Title:   "ADR by Reserved Room Type",
		Tab:     TabADR,
		Kind:    domain.KindBar,
		Caption: "Pricing differences across room categories.",
		Build:   meanChart(domain.ColReservedRoomType, domain.ColADR, "mean_adr", sortByLabel),
	},
	"lead_time_distribution": {
		Title:   "Lead Time Distribution",
		Tab:     TabCustomers,
		Kind:    domain.KindHist,
		Caption: "Long lead times indicate advance planning; short ones suggest last-minute bookings.",
		Build:   histChart(domain.ColLeadTime, "bookings", 30),
	},
	"stay_duration": {
		Title:   "Stay Duration (Week + Weekend Nights)",
		Tab:     TabCustomers,
		Kind:    domain.KindHist,
		Caption: "How long guests typically stay.",
		Build:   histChart(domain.ColTotalNights, "bookings", 20),
	},
	"customer_types": {
		Title:   "Customer Type Distribution",
		Tab:     TabCustomers,
		Kind:    domain.KindBar,
		Caption: "Identify dominant customer profiles.",
		Build:   countChart(domain.ColCustomerType, "bookings", sortByLabel),
	},
	"market_segments": {
		Title:   "Market Segment Breakdown",
		Tab:     TabCustomers,
		Kind:    domain.KindHBar,
		Caption: "Share of bookings by segment (online, offline, corporate and so on).",
		Build:   countChart(domain.ColMarketSegment, "bookings", sortByValueDesc),
	},
	"repeat_guests": {
		Title:   "Repeat Guest Share",
		Tab:     TabCustomers,
		Kind:    domain.KindBar,
		Caption: "Gauge loyalty: how many guests are repeat vs new.",
		Build:   relabeledCountChart(domain.ColIsRepeatedGuest, "bookings", map[string]string{"0": "New", "1": "Repeat"}),
	},
	"room_upgrades": {
		Title:   "Room Upgrades",
		Tab:     TabCustomers,
		Kind:    domain.KindBar,
		Caption: "Bookings where the assigned room type differs from the reserved one.",
		Build:   relabeledCountChart(domain.ColRoomUpgraded, "bookings", map[string]string{"0": "As reserved", "1": "Upgraded"}),
	},
	"cancellation_by_hotel": {
		Title:   "Cancellation Rate by Hotel Type",
		Tab:     TabRevenue,
		Kind:    domain.KindBar,
		Caption: "Which hotels have higher cancellation rates.",
		Build:   rateChart(domain.ColHotel, domain.ColIsCanceled, "cancellation_rate_pct", sortByLabel),
	},
	"cancellation_monthly": {
		Title:   "Monthly Cancellation Trend",
		Tab:     TabRevenue,
		Kind:    domain.KindLine,
		Caption: "Patterns or peaks in cancellation behavior over the year.",
		Build:   rateChart(domain.ColArrivalMonth, domain.ColIsCanceled, "cancellation_rate_pct", sortByMonth),
	},
	"revenue_monthly": {
		Title:   "Revenue by Month",
		Tab:     TabRevenue,
		Kind:    domain.KindBar,
		Caption: "Revenue generation over time (ADR times nights).",
		Build:   sumChart(domain.ColArrivalMonth, domain.ColRevenue, "revenue", sortByMonth),
	},
	"revenue_by_segment": {
		Title:   "Revenue by Market Segment",
		Tab:     TabRevenue,
		Kind:    domain.KindHBar,
		Caption: "Which segments are most profitable.",
		Build:   sumChart(domain.ColMarketSegment, domain.ColRevenue, "revenue", sortByValueDesc),
	},
	"special_requests": {
		Title:   "Distribution of Special Requests",
		Tab:     TabExtras,
		Kind:    domain.KindBar,
		Caption: "How many special requests guests typically make.",
		Build:   countChart(domain.ColSpecialRequests, "bookings", sortByNumericLabel),
	},
	"parking_spaces": {
		Title:   "Car Parking Space Requests",
		Tab:     TabExtras,
		Kind:    domain.KindBar,
		Caption: "Demand for parking facilities.",
		Build:   countChart(domain.ColParkingSpaces, "bookings", sortByNumericLabel),
	},
	"children_babies": {
		Title:   "Bookings with Children and Babies",
		Tab:     TabExtras,
		Kind:    domain.KindMultiBar,
		Caption: "How many bookings include families with kids.",
		Build:   childrenBabies,
	},
	"top_agents": {
		Title:   "Top 10 Agents by Number of Bookings",
		Tab:     TabExtras,
		Kind:    domain.KindHBar,
		Caption: "Which travel agents drive most bookings.",
		Build:   countTopChart(domain.ColAgent, "bookings", 10),
	},
	"reservation_status": {
		Title:   "Bookings by Reservation Status",
		Tab:     TabExtras,
		Kind:    domain.KindBar,
		Caption: "Share of bookings that are checked out, canceled, or no-show.",
		Build:   countChart(domain.ColReservationStatus, "bookings", sortByLabel),
	},
}

// ---- builder constructors ----

func singleSeries(dim, metric string, rows []row) domain.Table {
	t := domain.Table{Dimension: dim, Metric: metric}
	if len(rows) == 0 {
		return t
	}
	t.Labels = rowsToLabels(rows)
	t.Series = []domain.Series{{Name: metric, Values: rowsToValues(rows)}}
	return t
}

func countChart(dim, metric string, mode sortMode) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_COUNT, domain.ColADR, mode)
		if err != nil {
			return domain.Table{}, err
		}
		return singleSeries(dim, metric, rows), nil
	}
}

func countTopChart(dim, metric string, n int) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_COUNT, domain.ColADR, sortByValueDesc)
		if err != nil {
			return domain.Table{}, err
		}
		return singleSeries(dim, metric, topN(rows, n)), nil
	}
}

func relabeledCountChart(dim, metric string, names map[string]string) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_COUNT, domain.ColADR, sortByNumericLabel)
		if err != nil {
			return domain.Table{}, err
		}
		for i := range rows {
			if name, ok := names[rows[i].label]; ok {
				rows[i].label = name
			}
		}
		return singleSeries(dim, metric, rows), nil
	}
}

func meanChart(dim, col, metric string, mode sortMode) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_MEAN, col, mode)
		if err != nil {
			return domain.Table{}, err
		}
		return singleSeries(dim, metric, rows), nil
	}
}

func sumChart(dim, col, metric string, mode sortMode) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_SUM, col, mode)
		if err != nil {
			return domain.Table{}, err
		}
		return singleSeries(dim, metric, rows), nil
	}
}

// rateChart reports the mean of a 0/1 column per group as a percentage.
func rateChart(dim, col, metric string, mode sortMode) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		rows, err := groupAgg(df, dim, dataframe.Aggregation_MEAN, col, mode)
		if err != nil {
			return domain.Table{}, err
		}
		for i := range rows {
			rows[i].value *= 100
		}
		return singleSeries(dim, metric, rows), nil
	}
}

func histChart(col, metric string, bins int) func(dataframe.DataFrame) (domain.Table, error) {
	return func(df dataframe.DataFrame) (domain.Table, error) {
		t := domain.Table{Dimension: col, Metric: metric}
		if df.Nrow() == 0 {
			return t, nil
		}
		vals := df.Col(col).Float()
		lo, hi, ok := histBounds(vals)
		if !ok {
			return t, nil
		}
		t.Labels = histLabels(lo, hi, bins)
		t.Series = []domain.Series{{Name: metric, Values: histogram(vals, lo, hi, bins)}}
		return t, nil
	}
}

// childrenBabies bins both kid columns over shared bounds so the two
// series stay comparable.
func childrenBabies(df dataframe.DataFrame) (domain.Table, error) {
	t := domain.Table{Dimension: domain.ColChildren, Metric: "bookings"}
	if df.Nrow() == 0 {
		return t, nil
	}
	children := df.Col(domain.ColChildren).Float()
	babies := df.Col(domain.ColBabies).Float()
	lo, hi, ok := histBounds(append(append([]float64{}, children...), babies...))
	if !ok {
		return t, nil
	}
	const bins = 10
	t.Labels = histLabels(lo, hi, bins)
	t.Series = []domain.Series{
		{Name: "children", Values: histogram(children, lo, hi, bins)},
		{Name: "babies", Values: histogram(babies, lo, hi, bins)},
	}
	return t, nil
}
