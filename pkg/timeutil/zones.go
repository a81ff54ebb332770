package timeutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"
)

var ErrUnknownZone = errors.New("unknown time zone")

type Zone struct {
	IANA string `json:"iana"`
	Name string `json:"name"`
}

// CommonZones is the short list offered in zone pickers, west to east.
var CommonZones = []Zone{
	{IANA: "Pacific/Honolulu", Name: "Hawaii Time"},
	{IANA: "America/Anchorage", Name: "Alaska Time"},
	{IANA: "America/Los_Angeles", Name: "Pacific Time"},
	{IANA: "America/Denver", Name: "Mountain Time"},
	{IANA: "America/Chicago", Name: "Central Time"},
	{IANA: "America/New_York", Name: "Eastern Time"},
	{IANA: "America/Halifax", Name: "Atlantic Time"},
	{IANA: "America/St_Johns", Name: "Newfoundland Time"},
	{IANA: "America/Sao_Paulo", Name: "Brazil Time"},
	{IANA: "America/Argentina/Buenos_Aires", Name: "Argentina Time"},
	{IANA: "Atlantic/Azores", Name: "Azores"},
	{IANA: "UTC", Name: "UTC"},
	{IANA: "Europe/London", Name: "London"},
	{IANA: "Europe/Paris", Name: "Central European Time"},
	{IANA: "Europe/Berlin", Name: "Berlin"},
	{IANA: "Europe/Athens", Name: "Athens"},
	{IANA: "Africa/Cairo", Name: "Cairo"},
	{IANA: "Europe/Moscow", Name: "Moscow"},
	{IANA: "Asia/Dubai", Name: "Dubai"},
	{IANA: "Asia/Karachi", Name: "Pakistan"},
	{IANA: "Asia/Kolkata", Name: "India"},
	{IANA: "Asia/Dhaka", Name: "Bangladesh"},
	{IANA: "Asia/Bangkok", Name: "Bangkok"},
	{IANA: "Asia/Shanghai", Name: "China"},
	{IANA: "Asia/Tokyo", Name: "Tokyo"},
	{IANA: "Asia/Seoul", Name: "Seoul"},
	{IANA: "Australia/Sydney", Name: "Sydney"},
	{IANA: "Australia/Brisbane", Name: "Brisbane"},
	{IANA: "Pacific/Auckland", Name: "Auckland"},
}

// LoadZone resolves an IANA zone identifier. The empty string is rejected rather than
// silently treated as UTC.
func LoadZone(name string) (*time.Location, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: empty identifier", ErrUnknownZone)
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrUnknownZone, name, err)
	}
	return loc, nil
}

// ProjectMinutes interprets minutes as wall-clock time on date in source and returns the
// minute-of-day of the same instant in target.
func ProjectMinutes(date string, minutes int, source, target *time.Location) (int, error) {
	projected, _, err := ProjectMinutesWithShift(date, minutes, source, target)
	return projected, err
}

// ProjectMinutesWithShift is ProjectMinutes that also reports how many calendar days the
// target wall-clock date lies away from date (-1, 0 or +1 for real zones).
func ProjectMinutesWithShift(date string, minutes int, source, target *time.Location) (int, int, error) {
	day, err := ParseDate(date)
	if err != nil {
		return 0, 0, err
	}
	instant := time.Date(day.Year(), day.Month(), day.Day(), minutes/60, minutes%60, 0, 0, source)
	local := instant.In(target)

	localDay := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, time.UTC)
	shift := int(localDay.Sub(day).Hours() / 24)

	return local.Hour()*60 + local.Minute(), shift, nil
}

// UTCOffsetLabel renders the offset of zone at now, e.g. "UTC-5" or "UTC+5:30".
// The offset is for now, not for any particular event date.
func UTCOffsetLabel(zone *time.Location, now time.Time) string {
	_, offsetSeconds := now.In(zone).Zone()
	offset := offsetSeconds / 60

	sign := "+"
	if offset < 0 {
		sign = "-"
		offset = -offset
	}
	hours := offset / 60
	mins := offset % 60

	if mins == 0 {
		return fmt.Sprintf("UTC%s%d", sign, hours)
	}
	return fmt.Sprintf("UTC%s%d:%02d", sign, hours, mins)
}

// ZoneName returns the friendly name of a zone, falling back to its last path element.
func ZoneName(iana string) string {
	for _, z := range CommonZones {
		if z.IANA == iana {
			return z.Name
		}
	}
	name := iana
	if i := strings.LastIndex(iana, "/"); i >= 0 {
		name = iana[i+1:]
	}
	return strings.ReplaceAll(name, "_", " ")
}

// FormatZoneDisplay renders "UTC-5 (Eastern Time)".
func FormatZoneDisplay(iana string, now time.Time) (string, error) {
	loc, err := LoadZone(iana)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s (%s)", UTCOffsetLabel(loc, now), ZoneName(iana)), nil
}

// IsCommonZone reports whether iana is part of CommonZones.
func IsCommonZone(iana string) bool {
	for _, z := range CommonZones {
		if z.IANA == iana {
			return true
		}
	}
	return false
}
