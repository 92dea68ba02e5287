package app

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"bookinsight/internal/domain"
)

// Selection is the sidebar filter state. An empty field leaves its column
// unconstrained; all active fields must match (logical AND).
type Selection struct {
	HotelTypes    []string `json:"hotel_types,omitempty"`
	Years         []int    `json:"years,omitempty"`
	Months        []string `json:"months,omitempty"`
	CustomerTypes []string `json:"customer_types,omitempty"`
	ADRMin        *float64 `json:"adr_min,omitempty"`
	ADRMax        *float64 `json:"adr_max,omitempty"`
}

// IsZero reports whether the selection constrains nothing, i.e. filtering
// with it is the identity.
func (s Selection) IsZero() bool {
	return len(s.HotelTypes) == 0 && len(s.Years) == 0 && len(s.Months) == 0 &&
		len(s.CustomerTypes) == 0 && s.ADRMin == nil && s.ADRMax == nil
}

// Key digests the selection for cache keys. Stable under reordering of the
// selected values.
func (s Selection) Key() string {
	c := Selection{
		HotelTypes:    sortedCopy(s.HotelTypes),
		Years:         sortedIntCopy(s.Years),
		Months:        sortedCopy(s.Months),
		CustomerTypes: sortedCopy(s.CustomerTypes),
		ADRMin:        s.ADRMin,
		ADRMax:        s.ADRMax,
	}
	b, _ := json.Marshal(c)
	sum := sha1.Sum(b)
	return hex.EncodeToString(sum[:])[:16]
}

// ApplyFilters narrows the frame to the rows matching every active field
// of the selection. Re-applying the same selection always yields the same
// rows: the input frame is never modified.
func ApplyFilters(df dataframe.DataFrame, sel Selection) (dataframe.DataFrame, error) {
	out := df
	if out.Nrow() == 0 {
		return out, nil
	}
	if len(sel.HotelTypes) > 0 {
		out = out.Filter(dataframe.F{Colname: domain.ColHotel, Comparator: series.In, Comparando: sel.HotelTypes})
	}
	if len(sel.Years) > 0 {
		out = out.Filter(dataframe.F{Colname: domain.ColArrivalYear, Comparator: series.In, Comparando: sel.Years})
	}
	if len(sel.Months) > 0 {
		out = out.Filter(dataframe.F{Colname: domain.ColArrivalMonth, Comparator: series.In, Comparando: sel.Months})
	}
	if len(sel.CustomerTypes) > 0 {
		out = out.Filter(dataframe.F{Colname: domain.ColCustomerType, Comparator: series.In, Comparando: sel.CustomerTypes})
	}
	if sel.ADRMin != nil {
		out = out.Filter(dataframe.F{Colname: domain.ColADR, Comparator: series.GreaterEq, Comparando: *sel.ADRMin})
	}
	if sel.ADRMax != nil {
		out = out.Filter(dataframe.F{Colname: domain.ColADR, Comparator: series.LessEq, Comparando: *sel.ADRMax})
	}
	if out.Err != nil {
		return out, fmt.Errorf("apply filters: %w", out.Err)
	}
	return out, nil
}

func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	sort.Strings(out)
	return out
}

func sortedIntCopy(in []int) []int {
	if len(in) == 0 {
		return nil
	}
	out := make([]int, len(in))
	copy(out, in)
	sort.Ints(out)
	return out
}
