package weekinfo

import "strings"

// Region lists follow the CLDR week data. Regions not listed use Default.
const (
	sundayFirst   = "AG AS BD BR BS BT BW BZ CA CN CO DM DO ET GT GU HK HN ID IL IN JM JP KE KH KR LA MH MM MO MT MX MZ NI NP PA PE PH PK PR PT PY SA SG SV TH TT TW UM US VE VI WS YE ZA ZW"
	saturdayFirst = "AE AF BH DJ DZ EG IQ IR JO KW LY OM QA SD SY"
	fridayFirst   = "MV"

	fourDayFirstWeek = "AD AN AT AX BE BG CH CZ DE DK EE ES FI FJ FO FR GB GF GG GI GP GR HU IE IM IS IT JE LI LT LU MC MQ NL NO PL RE RU SE SJ SK SM VA"

	fridaySaturdayWeekend = "AE BH DZ EG IL IQ JO KW LY OM QA SA SD SY YE"
	thursdayFridayWeekend = "AF"
	fridayWeekend         = "IR"
	sundayWeekend         = "IN UG"
)

// DefaultTable returns a Table with the built-in region data.
func DefaultTable() *Table {
	regions := map[string]Info{}
	get := func(code string) Info {
		if info, ok := regions[code]; ok {
			return info
		}
		return Info{FirstDay: Default.FirstDay, Weekend: Default.Weekend, MinimalDays: Default.MinimalDays}
	}
	apply := func(codes string, fn func(*Info)) {
		for _, code := range strings.Fields(codes) {
			info := get(code)
			fn(&info)
			regions[code] = info
		}
	}

	apply(sundayFirst, func(i *Info) { i.FirstDay = 7 })
	apply(saturdayFirst, func(i *Info) { i.FirstDay = 6 })
	apply(fridayFirst, func(i *Info) { i.FirstDay = 5 })
	apply(fourDayFirstWeek, func(i *Info) { i.MinimalDays = 4 })
	apply(fridaySaturdayWeekend, func(i *Info) { i.Weekend = []int{5, 6} })
	apply(thursdayFridayWeekend, func(i *Info) { i.Weekend = []int{4, 5} })
	apply(fridayWeekend, func(i *Info) { i.Weekend = []int{5} })
	apply(sundayWeekend, func(i *Info) { i.Weekend = []int{7} })

	return NewTable(regions, Default)
}
