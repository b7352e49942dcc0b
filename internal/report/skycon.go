package report

import "time"

// skyconMap translates Caiyun condition codes to display text.
var skyconMap = map[string]string{
	"CLEAR_DAY":           "晴",
	"CLEAR_NIGHT":         "晴夜",
	"PARTLY_CLOUDY_DAY":   "多云",
	"PARTLY_CLOUDY_NIGHT": "多云夜",
	"CLOUDY":              "阴",
	"LIGHT_HAZE":          "轻度雾霾",
	"MODERATE_HAZE":       "中度雾霾",
	"HEAVY_HAZE":          "重度雾霾",
	"LIGHT_RAIN":          "小雨",
	"MODERATE_RAIN":       "中雨",
	"HEAVY_RAIN":          "大雨",
	"STORM_RAIN":          "暴雨",
	"FOG":                 "雾",
	"LIGHT_SNOW":          "小雪",
	"MODERATE_SNOW":       "中雪",
	"HEAVY_SNOW":          "大雪",
	"STORM_SNOW":          "暴雪",
	"DUST":                "浮尘",
	"SAND":                "沙尘",
	"WIND":                "大风",
}

// skyconText looks up the display text for a condition code, passing unmapped
// codes through and defaulting an absent code to 未知.
func skyconText(code any) string {
	s, ok := asString(code)
	if !ok || s == "" {
		return "未知"
	}
	if text, mapped := skyconMap[s]; mapped {
		return text
	}
	return s
}

// weekdayCN is indexed Monday first to match the zh-CN convention.
var weekdayCN = []string{"周一", "周二", "周三", "周四", "周五", "周六", "周日"}

// weekdayText returns the Chinese weekday for a yyyy-mm-dd date string, or ""
// when the date does not parse.
func weekdayText(dateText string) string {
	if dateText == "" {
		return ""
	}
	d, err := time.Parse("2006-01-02", dateText)
	if err != nil {
		return ""
	}
	// time.Weekday counts from Sunday; shift to a Monday-first index.
	return weekdayCN[(int(d.Weekday())+6)%7]
}
