package app_test

import (
	"testing"

	"bookinsight/internal/app"
	"bookinsight/internal/dataset"
	"bookinsight/internal/domain"
)

const fixtureCSV = `hotel,is_canceled,lead_time,arrival_date_year,arrival_date_month,stays_in_weekend_nights,stays_in_week_nights,children,babies,country,market_segment,distribution_channel,is_repeated_guest,reserved_room_type,assigned_room_type,agent,company,customer_type,adr,required_car_parking_spaces,total_of_special_requests,reservation_status
Resort Hotel,0,10,2016,July,1,2,0,0,PRT,Online TA,TA/TO,0,A,A,9,NA,Transient,100,0,1,Check-Out
Resort Hotel,1,30,2016,August,2,3,1,0,GBR,Online TA,TA/TO,0,A,B,9,NA,Transient,150,0,0,Canceled
City Hotel,0,5,2017,July,0,1,,0,PRT,Direct,Direct,1,A,A,NA,NA,Contract,80,1,2,Check-Out
City Hotel,1,60,2017,August,1,0,0,1,FRA,Corporate,Corporate,0,B,B,240,110,Transient-Party,120,0,0,No-Show
Resort Hotel,0,2,2016,July,0,2,2,1,,Direct,Direct,0,C,C,NA,NA,Transient,60,2,3,Check-Out
`

func loadFixture(t *testing.T) *dataset.Snapshot {
	t.Helper()
	snap, err := dataset.LoadBytes([]byte(fixtureCSV))
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return snap
}

func fptr(v float64) *float64 { return &v }

func TestApplyFilters_EmptySelectionIsIdentity(t *testing.T) {
	df := loadFixture(t).Frame()
	out, err := app.ApplyFilters(df, app.Selection{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nrow() != df.Nrow() {
		t.Fatalf("rows = %d, want %d", out.Nrow(), df.Nrow())
	}
}

func TestApplyFilters_AllFieldsMustMatch(t *testing.T) {
	df := loadFixture(t).Frame()
	sel := app.Selection{
		HotelTypes:    []string{"Resort Hotel"},
		CustomerTypes: []string{"Transient"},
		ADRMin:        fptr(100),
	}
	out, err := app.ApplyFilters(df, sel)
	if err != nil {
		t.Fatal(err)
	}
	if out.Nrow() != 2 {
		t.Fatalf("rows = %d, want 2", out.Nrow())
	}
	hotels := out.Col(domain.ColHotel).Records()
	adrs := out.Col(domain.ColADR).Float()
	for i := range hotels {
		if hotels[i] != "Resort Hotel" {
			t.Fatalf("row %d hotel = %q", i, hotels[i])
		}
		if adrs[i] < 100 {
			t.Fatalf("row %d adr = %v, below minimum", i, adrs[i])
		}
	}
}

func TestApplyFilters_NeverGrowsTheFrame(t *testing.T) {
	df := loadFixture(t).Frame()
	sels := []app.Selection{
		{Years: []int{2016}},
		{Months: []string{"July"}},
		{HotelTypes: []string{"City Hotel"}, Years: []int{2016}},
		{ADRMin: fptr(90), ADRMax: fptr(130)},
	}
	for _, sel := range sels {
		out, err := app.ApplyFilters(df, sel)
		if err != nil {
			t.Fatal(err)
		}
		if out.Nrow() > df.Nrow() {
			t.Fatalf("selection %+v grew the frame: %d > %d", sel, out.Nrow(), df.Nrow())
		}
	}
}

func TestApplyFilters_ADRRange(t *testing.T) {
	df := loadFixture(t).Frame()
	out, err := app.ApplyFilters(df, app.Selection{ADRMin: fptr(90), ADRMax: fptr(130)})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nrow() != 2 {
		t.Fatalf("rows = %d, want 2", out.Nrow())
	}
	for _, adr := range out.Col(domain.ColADR).Float() {
		if adr < 90 || adr > 130 {
			t.Fatalf("adr %v outside [90,130]", adr)
		}
	}
}

func TestApplyFilters_DisjointCriteriaYieldEmpty(t *testing.T) {
	df := loadFixture(t).Frame()
	out, err := app.ApplyFilters(df, app.Selection{HotelTypes: []string{"City Hotel"}, Months: []string{"Nonesuch"}})
	if err != nil {
		t.Fatal(err)
	}
	if out.Nrow() != 0 {
		t.Fatalf("rows = %d, want 0", out.Nrow())
	}
}

func TestSelectionKey_StableUnderReordering(t *testing.T) {
	a := app.Selection{HotelTypes: []string{"City Hotel", "Resort Hotel"}, Years: []int{2017, 2016}}
	b := app.Selection{HotelTypes: []string{"Resort Hotel", "City Hotel"}, Years: []int{2016, 2017}}
	if a.Key() != b.Key() {
		t.Fatal("reordered values must produce the same key")
	}
	c := app.Selection{HotelTypes: []string{"City Hotel"}}
	if a.Key() == c.Key() {
		t.Fatal("different selections must produce different keys")
	}
}
