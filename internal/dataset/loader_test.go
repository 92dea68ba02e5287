package dataset_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

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

func TestLoadBytes_CleansAndDerives(t *testing.T) {
	snap, err := dataset.LoadBytes([]byte(fixtureCSV))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if snap.Rows() != 5 {
		t.Fatalf("rows = %d, want 5", snap.Rows())
	}
	df := snap.Frame()

	// missing children -> 0
	children := df.Col(domain.ColChildren).Float()
	if children[2] != 0 {
		t.Fatalf("children[2] = %v, want 0", children[2])
	}
	// missing country -> Unknown
	if got := df.Col(domain.ColCountry).Records()[4]; got != "Unknown" {
		t.Fatalf("country[4] = %q, want Unknown", got)
	}
	// NA agent -> -1 sentinel
	if got := df.Col(domain.ColAgent).Records()[2]; got != "-1" {
		t.Fatalf("agent[2] = %q, want -1", got)
	}

	// derived columns
	nights := df.Col(domain.ColTotalNights).Float()
	if nights[0] != 3 {
		t.Fatalf("total_nights[0] = %v, want 3", nights[0])
	}
	revenue := df.Col(domain.ColRevenue).Float()
	if revenue[0] != 300 { // 100 ADR * 3 nights
		t.Fatalf("revenue[0] = %v, want 300", revenue[0])
	}
	upgraded := df.Col(domain.ColRoomUpgraded).Float()
	if upgraded[0] != 0 || upgraded[1] != 1 {
		t.Fatalf("room_upgraded = %v,%v, want 0,1", upgraded[0], upgraded[1])
	}
}

func TestLoadBytes_MissingColumns(t *testing.T) {
	csv := "hotel,arrival_date_year\nResort Hotel,2016\n"
	_, err := dataset.LoadBytes([]byte(csv))
	if err == nil {
		t.Fatal("expected schema error")
	}
	for _, col := range []string{domain.ColADR, domain.ColCustomerType} {
		if !strings.Contains(err.Error(), col) {
			t.Fatalf("error %q does not name missing column %s", err, col)
		}
	}
}

func TestLoad_VersionTracksContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookings.csv")
	if err := os.WriteFile(path, []byte(fixtureCSV), 0o644); err != nil {
		t.Fatal(err)
	}

	first, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if first.Path != path {
		t.Fatalf("path = %q", first.Path)
	}
	if len(first.Version()) != 12 {
		t.Fatalf("version = %q, want 12 hex chars", first.Version())
	}

	again, err := dataset.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if again.Version() != first.Version() {
		t.Fatal("same content must keep the same version")
	}

	changed := strings.Replace(fixtureCSV, "Resort Hotel,0,10", "Resort Hotel,0,11", 1)
	if err := os.WriteFile(path, []byte(changed), 0o644); err != nil {
		t.Fatal(err)
	}
	third, err := dataset.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if third.Version() == first.Version() {
		t.Fatal("changed content must change the version")
	}
}

func TestStore_SwapChangesSnapshot(t *testing.T) {
	first, err := dataset.LoadBytes([]byte(fixtureCSV))
	if err != nil {
		t.Fatal(err)
	}
	st := dataset.NewStore(first)
	if st.Version() != first.Version() {
		t.Fatal("store must expose the initial snapshot")
	}

	changed := strings.Replace(fixtureCSV, "Transient,100", "Transient,101", 1)
	second, err := dataset.LoadBytes([]byte(changed))
	if err != nil {
		t.Fatal(err)
	}
	st.Swap(second)
	if st.Version() != second.Version() {
		t.Fatal("store must expose the swapped snapshot")
	}
	if st.Frame().Nrow() != 5 {
		t.Fatalf("rows = %d, want 5", st.Frame().Nrow())
	}
}
