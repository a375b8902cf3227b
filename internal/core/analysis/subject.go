package analysis

import "time"

// TimelineSubject is a ready-made Subject over an in-memory checkoff
// timeline. Times must be ascending and unique.
type TimelineSubject struct {
	Config  Periodicity
	Created time.Time
	Times   []time.Time
}

func (s TimelineSubject) Periodicity() Periodicity { return s.Config }
func (s TimelineSubject) CreatedAt() time.Time     { return s.Created }

func (s TimelineSubject) Checkoffs(from, to time.Time) []time.Time {
	var out []time.Time
	for _, ts := range s.Times {
		if ts.Before(from) || ts.After(to) {
			continue
		}
		out = append(out, ts)
	}
	return out
}
