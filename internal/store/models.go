package store

// Professor is one instructor row with its optional rating fields.
type Professor struct {
	ID             int64
	Name           string
	Score          *float64
	Difficulty     *float64
	WouldTakeAgain *float64
	Link           string
}

// HasScore reports whether the professor carries a rating score.
func (p Professor) HasScore() bool { return p.Score != nil }

// HasLink reports whether the professor has a provider profile link.
func (p Professor) HasLink() bool { return p.Link != "" }

// Ratings is the enrichment payload written for a matched professor.
type Ratings struct {
	Score          float64
	Difficulty     float64
	WouldTakeAgain *float64
	Link           string
}

// RatingsOf returns the enrichment fields currently stored on p.
func RatingsOf(p Professor) Ratings {
	r := Ratings{WouldTakeAgain: p.WouldTakeAgain, Link: p.Link}
	if p.Score != nil {
		r.Score = *p.Score
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	return r
}

// MergePlan describes one duplicate group collapse.
type MergePlan struct {
	SurvivorID int64
	LoserIDs   []int64
	// Transfer, when set, replaces the survivor's enrichment fields.
	Transfer *Ratings
}

// Class is the minimal class row needed to attach distributions.
type Class struct {
	Campus      string
	DeptAbbr    string
	CourseNum   string
	Description string
}

// Coverage summarizes enrichment coverage across all professors.
type Coverage struct {
	Total      int
	WithLink   int
	WithScore  int
	ZeroScores int
}

// Percent returns the share of professors with a valid score.
func (c Coverage) Percent() float64 {
	if c.Total == 0 {
		return 0
	}
	return float64(c.WithScore) / float64(c.Total) * 100
}
