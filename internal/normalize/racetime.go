package normalize

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnparseableTime means no recognized race-time layout matched the input.
var ErrUnparseableTime = errors.New("normalize: unparseable race time")

// Race times come as mm:ss.cc, mm:ss or bare ss.cc; comma and dot both act
// as the decimal separator and a single fraction digit means tenths.
var raceTimePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?P<m>\d+):(?P<s>\d{2})[.,](?P<cs>\d{1,2})$`),
	regexp.MustCompile(`^(?P<m>\d+):(?P<s>\d{2})$`),
	regexp.MustCompile(`^(?P<s>\d{1,3})[.,](?P<cs>\d{1,2})$`),
}

// RaceTime parses a race time string into a duration with centisecond
// precision.
func RaceTime(s string) (time.Duration, error) {
	v := strings.TrimSpace(s)
	for _, p := range raceTimePatterns {
		m := p.FindStringSubmatch(v)
		if m == nil {
			continue
		}

		var minutes, seconds, centis int
		for i, name := range p.SubexpNames() {
			if i == 0 || m[i] == "" {
				continue
			}
			n, _ := strconv.Atoi(m[i])
			switch name {
			case "m":
				minutes = n
			case "s":
				seconds = n
			case "cs":
				if len(m[i]) == 1 {
					n *= 10
				}
				centis = n
			}
		}

		d := time.Duration(minutes)*time.Minute +
			time.Duration(seconds)*time.Second +
			time.Duration(centis)*10*time.Millisecond
		return d, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnparseableTime, s)
}

// FormatRaceTime renders a duration back into meet-report notation:
// "4:30.00" above a minute, "34.50" below.
func FormatRaceTime(d time.Duration) string {
	centis := d.Milliseconds() / 10
	minutes := centis / 6000
	centis -= minutes * 6000
	seconds := centis / 100
	centis -= seconds * 100

	if minutes > 0 {
		return fmt.Sprintf("%d:%02d.%02d", minutes, seconds, centis)
	}
	return fmt.Sprintf("%d.%02d", seconds, centis)
}
