package domain

// Column names of the bookings dataset. The CSV carries more columns than
// these; only the ones a chart or filter touches are listed and validated.
const (
	ColHotel               = "hotel"
	ColIsCanceled          = "is_canceled"
	ColLeadTime            = "lead_time"
	ColArrivalYear         = "arrival_date_year"
	ColArrivalMonth        = "arrival_date_month"
	ColWeekendNights       = "stays_in_weekend_nights"
	ColWeekNights          = "stays_in_week_nights"
	ColChildren            = "children"
	ColBabies              = "babies"
	ColCountry             = "country"
	ColMarketSegment       = "market_segment"
	ColDistributionChannel = "distribution_channel"
	ColIsRepeatedGuest     = "is_repeated_guest"
	ColReservedRoomType    = "reserved_room_type"
	ColAssignedRoomType    = "assigned_room_type"
	ColAgent               = "agent"
	ColCompany             = "company"
	ColCustomerType        = "customer_type"
	ColADR                 = "adr"
	ColParkingSpaces       = "required_car_parking_spaces"
	ColSpecialRequests     = "total_of_special_requests"
	ColReservationStatus   = "reservation_status"
)

// Derived columns added by the loader.
const (
	ColTotalNights  = "total_nights"
	ColRevenue      = "revenue"
	ColRoomUpgraded = "room_upgraded"
)

// RequiredColumns must all be present in the CSV header.
var RequiredColumns = []string{
	ColHotel, ColIsCanceled, ColLeadTime, ColArrivalYear, ColArrivalMonth,
	ColWeekendNights, ColWeekNights, ColChildren, ColBabies, ColCountry,
	ColMarketSegment, ColDistributionChannel, ColIsRepeatedGuest,
	ColReservedRoomType, ColAssignedRoomType, ColAgent, ColCompany,
	ColCustomerType, ColADR, ColParkingSpaces, ColSpecialRequests,
	ColReservationStatus,
}

// MonthOrder is the calendar ordering used by the trend charts; the dataset
// stores arrival months as English month names.
var MonthOrder = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// MonthIndex returns the calendar position of a month name, or 12 for
// anything unrecognised so that junk sorts last.
func MonthIndex(m string) int {
	for i, name := range MonthOrder {
		if name == m {
			return i
		}
	}
	return len(MonthOrder)
}
