package highlight

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalidStoryboard is wrapped by storyboard validation failures.
var ErrInvalidStoryboard = errors.New("invalid storyboard")

// Section is one scroll-driven narrative beat. Select names a track
// predicate whose matches are added to Highlight once the storyboard is
// bound to a dataset.
type Section struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Highlight   []int  `yaml:"highlight" json:"highlight"`
	Select      string `yaml:"select,omitempty" json:"select,omitempty"`
}

func (s Section) Set() Set { return NewSet(s.Highlight...) }

// Storyboard is the ordered list of sections for one pinned chart.
type Storyboard struct {
	Name     string    `yaml:"name" json:"name"`
	Chart    string    `yaml:"chart,omitempty" json:"chart,omitempty"`
	Dataset  string    `yaml:"dataset,omitempty" json:"dataset,omitempty"`
	Sections []Section `yaml:"sections" json:"sections"`
}

func (b *Storyboard) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Sections)
}

func (b *Storyboard) Validate() error {
	if b.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidStoryboard)
	}
	if len(b.Sections) == 0 {
		return fmt.Errorf("%w: %s has no sections", ErrInvalidStoryboard, b.Name)
	}
	for i, sec := range b.Sections {
		if sec.Title == "" {
			return fmt.Errorf("%w: %s section %d has no title", ErrInvalidStoryboard, b.Name, i)
		}
		for _, id := range sec.Highlight {
			if id < 0 {
				return fmt.Errorf("%w: %s section %d has negative id %d", ErrInvalidStoryboard, b.Name, i, id)
			}
		}
	}
	return nil
}

// Selects reports whether any section needs binding.
func (b *Storyboard) Selects() bool {
	if b == nil {
		return false
	}
	for _, sec := range b.Sections {
		if sec.Select != "" {
			return true
		}
	}
	return false
}

// Bind returns a copy of b in which every selecting section also highlights
// the ids pick returns for its selector. b itself is left untouched so one
// registered storyboard can serve several datasets.
func (b *Storyboard) Bind(pick func(selector string) ([]int, error)) (*Storyboard, error) {
	out := *b
	out.Sections = make([]Section, len(b.Sections))
	for i, sec := range b.Sections {
		if sec.Select != "" {
			ids, err := pick(sec.Select)
			if err != nil {
				return nil, fmt.Errorf("%w: %s section %d: %v", ErrInvalidStoryboard, b.Name, i, err)
			}
			sec.Highlight = append(append([]int(nil), sec.Highlight...), ids...)
		}
		out.Sections[i] = sec
	}
	return &out, nil
}

// MaxID returns the largest highlighted id, or -1.
func (b *Storyboard) MaxID() int {
	max := -1
	for _, sec := range b.Sections {
		for _, id := range sec.Highlight {
			if id > max {
				max = id
			}
		}
	}
	return max
}

func ParseStoryboard(data []byte) (*Storyboard, error) {
	var b Storyboard
	if err := yaml.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("parsing storyboard: %w", err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

func LoadStoryboard(path string) (*Storyboard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading storyboard: %w", err)
	}
	return ParseStoryboard(data)
}

func seq(from, to int) []int {
	out := make([]int, 0, to-from+1)
	for i := from; i <= to; i++ {
		out = append(out, i)
	}
	return out
}

// DefaultSetlistStoryboard is the four-beat walk through the tour setlist.
func DefaultSetlistStoryboard() *Storyboard {
	pacing := append(seq(1, 5), seq(10, 20)...)
	pacing = append(pacing, 23, 24)
	pacing = append(pacing, seq(26, 30)...)
	pacing = append(pacing, 33, 34, 35)

	return &Storyboard{
		Name:    "setlist",
		Chart:   "setlist",
		Dataset: "setlist",
		Sections: []Section{
			{
				Title:       "The Setlist Flow",
				Description: "Every song of the night in performed order, coloured by era.",
			},
			{
				Title:       "Pacing Like a Marathon Runner",
				Description: "High-energy songs are spread out so the show never runs flat.",
				Highlight:   pacing,
			},
			{
				Title:       "The Strategic Placement of Taylor's Most Vulnerable Songs",
				Description: "The quietest songs land right after the biggest peaks.",
				Highlight:   []int{5, 13, 15, 23, 29},
			},
			{
				Title:       "Building to the Climax",
				Description: "The final stretch climbs steadily toward the closing numbers.",
				Highlight:   seq(27, 42),
			},
		},
	}
}

// DefaultTrackFiveStoryboard introduces the album panels, then singles out
// the fifth track of every album.
func DefaultTrackFiveStoryboard() *Storyboard {
	return &Storyboard{
		Name:    "trackfive",
		Chart:   "trackfive",
		Dataset: "albums",
		Sections: []Section{
			{
				Title:       "Every Album, Track by Track",
				Description: "Danceability of each song by its position on the record.",
			},
			{
				Title:       "The Track 5 Tradition",
				Description: "The fifth track is where the most vulnerable song tends to sit.",
				Select:      "track-five",
			},
		},
	}
}
