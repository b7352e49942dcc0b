package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/SaborBao/openclaw-skill-weather-cn/internal/config"
)

// RenderJSON writes the report as indented JSON with non-ASCII characters
// left unescaped.
func RenderJSON(w io.Writer, rep Report) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

var trailingClockRe = regexp.MustCompile(`\d{2}:\d{2}$`)

// RenderText writes the fixed multi-section text report: header, up to three
// daily rows, the realtime block, up to six aligned hourly rows, and the
// full-detail extras when present.
func RenderText(w io.Writer, rep Report, detail config.Detail) error {
	var b strings.Builder

	fmt.Fprintf(&b, "**%s｜天气**\n", rep.ResolvedAddress)
	fmt.Fprintf(&b, "`查询时间 %s`\n\n", minutePrefix(rep.QueryTime))

	daily := rep.Daily
	if len(daily) > 3 {
		daily = daily[:3]
	}
	if len(daily) > 0 {
		fmt.Fprintf(&b, "**近 %d 日**\n", len(daily))
	} else {
		b.WriteString("**近几日**\n")
	}
	for _, day := range daily {
		label := weekdayText(day.Date)
		if label == "" {
			label = day.Date
		}
		fmt.Fprintf(&b, "• %s %s  %s～%s°C\n", label, day.Skycon, fmtNumber(day.Min), fmtNumber(day.Max))
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "**当前**\n• %s°C（体感 %s°C）｜湿度 %s%%\n\n",
		fmtNumber(rep.Realtime.Temperature),
		fmtNumber(rep.Realtime.ApparentTemperature),
		fmtIntNumber(rep.Realtime.HumidityPercent),
	)

	if len(rep.Hourly) > 0 {
		b.WriteString("**未来 6 小时**\n```text\n")
		hourly := rep.Hourly
		if len(hourly) > 6 {
			hourly = hourly[:6]
		}
		for _, item := range hourly {
			hhmm := item.Datetime
			if trailingClockRe.MatchString(hhmm) && len(hhmm) >= 5 {
				hhmm = hhmm[len(hhmm)-5:]
			}

			sky := item.Skycon
			if sky == "" {
				sky = "--"
			}

			tempText := "--°C"
			if item.Temperature != nil {
				tempText = fmt.Sprintf("%.2f°C", *item.Temperature)
			}

			probText := "--"
			if item.PrecipitationProbability != nil {
				probText = fmt.Sprintf("%d%%", int(math.Round(*item.PrecipitationProbability)))
			}

			amountText := "--"
			if item.Precipitation != nil {
				amountText = fmt.Sprintf("%.2f", *item.Precipitation)
			}

			fmt.Fprintf(&b, "%s  %s  %s  降水 %s  %s mm/h\n",
				runewidth.FillLeft(hhmm, 5),
				runewidth.FillRight(sky, 4),
				runewidth.FillRight(tempText, 8),
				runewidth.FillLeft(probText, 4),
				amountText,
			)
		}
		b.WriteString("```\n")
	}

	if detail == config.DetailFull {
		renderFullExtras(&b, rep)
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func renderFullExtras(b *strings.Builder, rep Report) {
	if rep.Realtime.AQIChn != nil || rep.Realtime.PM25 != nil {
		fmt.Fprintf(b, "空气质量: AQI(国标) %s, PM2.5 %s\n",
			fmtNumber(rep.Realtime.AQIChn), fmtNumber(rep.Realtime.PM25))
	}

	if m := rep.Minutely; m != nil && (m.Description != nil || m.MaxProbability != nil) {
		desc := "无"
		if m.Description != nil && *m.Description != "" {
			desc = *m.Description
		}
		probText := "--"
		if m.MaxProbability != nil {
			probText = fmt.Sprintf("%d%%", int(math.Round(*m.MaxProbability*100)))
		}
		fmt.Fprintf(b, "分钟级降雨: %s (最大概率 %s)\n", desc, probText)
	}

	if len(rep.Alerts) > 0 {
		fmt.Fprintf(b, "⚠️ 天气预警: %d 条\n", len(rep.Alerts))
		alerts := rep.Alerts
		if len(alerts) > 3 {
			alerts = alerts[:3]
		}
		for _, item := range alerts {
			title := "--"
			if item.Title != nil {
				title = *item.Title
			}
			status := "未知状态"
			if item.Status != nil && *item.Status != "" {
				status = *item.Status
			}
			fmt.Fprintf(b, "  %s (%s)\n", title, status)
		}
	}
}

// minutePrefix trims a "2006-01-02 15:04:05" timestamp to minute precision.
func minutePrefix(ts string) string {
	if len(ts) >= 16 {
		return ts[:16]
	}
	return ts
}

func fmtNumber(v *float64) string {
	if v == nil {
		return "--"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func fmtIntNumber(v *int) string {
	if v == nil {
		return "--"
	}
	return strconv.Itoa(*v)
}
