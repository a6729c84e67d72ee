package models

// EraRun is a maximal run of consecutive setlist tracks from one era.
// Start and End are inclusive indexes into the setlist.
type EraRun struct {
	Era   string `json:"era"`
	Start int    `json:"start"`
	End   int    `json:"end"`
}

func (r EraRun) Len() int { return r.End - r.Start + 1 }

// Setlist is the performed order of tracks, distinct from release order.
type Setlist []Track

// EraRuns splits the setlist into contiguous single-era runs. An era that
// appears twice (e.g. a surprise-song block) yields two runs.
func (s Setlist) EraRuns() []EraRun {
	var runs []EraRun
	for i, t := range s {
		era := t.Era()
		if n := len(runs); n > 0 && runs[n-1].Era == era {
			runs[n-1].End = i
			continue
		}
		runs = append(runs, EraRun{Era: era, Start: i, End: i})
	}
	return runs
}

// ByEra groups track indexes per era, in first-seen order.
func (s Setlist) ByEra() (eras []string, groups map[string][]Track) {
	groups = make(map[string][]Track)
	for _, t := range s {
		era := t.Era()
		if _, ok := groups[era]; !ok {
			eras = append(eras, era)
		}
		groups[era] = append(groups[era], t)
	}
	return eras, groups
}
