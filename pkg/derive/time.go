package derive

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/yurifrl/adinsights/pkg/models"
)

// Bucket is one category of an impressions breakdown.
type Bucket struct {
	Label       string  `json:"label"`
	Impressions float64 `json:"impressions"`
	Share       float64 `json:"share"`
}

func buckets(t *models.Table, labelCol string, keep []int) []Bucket {
	values := make([]float64, len(keep))
	for i, row := range keep {
		values[i] = t.Float(row, models.ColImpressions)
	}
	shares := Shares(values)
	out := make([]Bucket, len(keep))
	for i, row := range keep {
		out[i] = Bucket{Label: t.Text(row, labelCol), Impressions: values[i], Share: shares[i]}
	}
	return out
}

// Days returns the day-of-week breakdown in canonical order, Monday first. Days that are not
// part of the canonical week are left out; a missing day is simply absent.
func Days(t *models.Table) []Bucket {
	var rows []int
	for _, day := range models.DayOrder {
		if idx := t.Find(models.ColDay, day); idx >= 0 {
			rows = append(rows, idx)
		}
	}
	return buckets(t, models.ColDay, rows)
}

// hourValue parses "9", "09" or "9.0". Unparsable hours sort after every valid one.
func hourValue(s string) float64 {
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(s), ",", "."), 64)
	if err != nil || math.IsNaN(v) {
		return math.Inf(1)
	}
	return v
}

// Hours returns the hour-of-day breakdown in ascending hour order.
func Hours(t *models.Table) []Bucket {
	rows := make([]int, t.Len())
	for i := range rows {
		rows[i] = i
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return hourValue(t.Text(rows[i], models.ColHour)) < hourValue(t.Text(rows[j], models.ColHour))
	})
	return buckets(t, models.ColHour, rows)
}

// Peak returns the first bucket with the most impressions. Callers pass buckets already in
// their canonical order, so ties go to the earliest day or hour.
func Peak(b []Bucket) (Bucket, bool) {
	values := make([]float64, len(b))
	for i, x := range b {
		values[i] = x.Impressions
	}
	idx := argmax(values)
	if idx < 0 {
		return Bucket{}, false
	}
	return b[idx], true
}

// Heatmap is impressions pivoted to hours (rows) by days (columns). Cells without data are 0
// and repeated (hour, day) pairs are averaged.
type Heatmap struct {
	Hours  []string    `json:"hours"`
	Days   []string    `json:"days"`
	Values [][]float64 `json:"values"`
}

// BuildHeatmap pivots the day × hour source. Hours are sorted as text, which is why the
// normalizer pads them to two digits.
func BuildHeatmap(t *models.Table) Heatmap {
	type key struct{ hour, day string }
	sums := map[key]float64{}
	counts := map[key]int{}
	seen := map[string]bool{}
	var hours []string

	for i := 0; i < t.Len(); i++ {
		k := key{hour: t.Text(i, models.ColHour), day: t.Text(i, models.ColDay)}
		if models.DayIndex(k.day) < 0 {
			continue
		}
		if !seen[k.hour] {
			seen[k.hour] = true
			hours = append(hours, k.hour)
		}
		sums[k] += t.Float(i, models.ColImpressions)
		counts[k]++
	}
	sort.Strings(hours)

	h := Heatmap{
		Hours:  hours,
		Days:   append([]string(nil), models.DayOrder...),
		Values: make([][]float64, len(hours)),
	}
	for i, hour := range hours {
		h.Values[i] = make([]float64, len(h.Days))
		for j, day := range h.Days {
			k := key{hour: hour, day: day}
			if n := counts[k]; n > 0 {
				h.Values[i][j] = sums[k] / float64(n)
			}
		}
	}
	return h
}

// HeatCell is one cell of a heatmap.
type HeatCell struct {
	Hour        string  `json:"hour"`
	Day         string  `json:"day"`
	Impressions float64 `json:"impressions"`
}

// Peak returns the busiest cell, scanning hours in order and days Monday first.
func (h Heatmap) Peak() (HeatCell, bool) {
	var best HeatCell
	found := false
	for i, hour := range h.Hours {
		for j, day := range h.Days {
			v := h.Values[i][j]
			if !found || v > best.Impressions {
				best = HeatCell{Hour: hour, Day: day, Impressions: v}
				found = true
			}
		}
	}
	return best, found
}

// Segment is one row of a demographic breakdown. KnownShare is the share as reported by the
// export, kept verbatim.
type Segment struct {
	Label       string  `json:"label"`
	Impressions float64 `json:"impressions"`
	KnownShare  string  `json:"known_share"`
}

// Segments lists a demographic table in table order.
func Segments(t *models.Table, labelCol string) []Segment {
	out := make([]Segment, t.Len())
	for i := range out {
		out[i] = Segment{
			Label:       t.Text(i, labelCol),
			Impressions: t.Float(i, models.ColImpressions),
			KnownShare:  t.Text(i, models.ColKnownShare),
		}
	}
	return out
}

// TopSegment returns the first segment with the most impressions.
func TopSegment(s []Segment) (Segment, bool) {
	values := make([]float64, len(s))
	for i, x := range s {
		values[i] = x.Impressions
	}
	idx := argmax(values)
	if idx < 0 {
		return Segment{}, false
	}
	return s[idx], true
}

// FindSegment returns the segment with the given label.
func FindSegment(s []Segment, label string) (Segment, bool) {
	for _, x := range s {
		if x.Label == label {
			return x, true
		}
	}
	return Segment{}, false
}

// SexAgeRow is one row of the sex by age breakdown.
type SexAgeRow struct {
	Sex         string  `json:"sex"`
	AgeRange    string  `json:"age_range"`
	Impressions float64 `json:"impressions"`
}

// SexAge lists the sex by age source ordered by impressions, largest first.
func SexAge(t *models.Table) []SexAgeRow {
	out := make([]SexAgeRow, t.Len())
	for i := range out {
		out[i] = SexAgeRow{
			Sex:         t.Text(i, models.ColSex),
			AgeRange:    t.Text(i, models.ColAgeRange),
			Impressions: t.Float(i, models.ColImpressions),
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Impressions > out[j].Impressions })
	return out
}
