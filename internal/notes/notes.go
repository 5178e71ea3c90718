// Package notes serves the study roadmap and the video chapter lists.
package notes

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

var ErrInvalidTimestamp = errors.New("notes: invalid timestamp")

type Status string

const (
	StatusDone       Status = "done"
	StatusInProgress Status = "in-progress"
	StatusPlanned    Status = "planned"
)

// Topic is one roadmap entry.
type Topic struct {
	Order     int      `yaml:"order" json:"order"`
	Title     string   `yaml:"title" json:"title"`
	Status    Status   `yaml:"status" json:"status"`
	Summary   string   `yaml:"summary" json:"summary"`
	Subtopics []string `yaml:"subtopics" json:"subtopics"`
}

type Chapter struct {
	Title string        `json:"title"`
	Start time.Duration `json:"-"`
	End   time.Duration `json:"-"`

	StartLabel   string `json:"start"`
	EndLabel     string `json:"end"`
	StartSeconds int    `json:"start_seconds"`
	EndSeconds   int    `json:"end_seconds"`
}

type Video struct {
	ID       string        `json:"id"`
	Title    string        `json:"title"`
	Length   time.Duration `json:"-"`
	Seconds  int           `json:"length_seconds"`
	Chapters []Chapter     `json:"chapters"`
}

type rawVideo struct {
	ID       string `yaml:"id"`
	Title    string `yaml:"title"`
	Length   string `yaml:"length"`
	Chapters []struct {
		Start string `yaml:"start"`
		Title string `yaml:"title"`
	} `yaml:"chapters"`
}

// Notes is the loaded study material.
type Notes struct {
	Roadmap []Topic
	Videos  []Video
}

func Default() (*Notes, error) {
	return Load(dataFS)
}

// Load reads data/roadmap.yaml and data/videos.yaml from fsys.
func Load(fsys fs.FS) (*Notes, error) {
	n := &Notes{}

	raw, err := fs.ReadFile(fsys, "data/roadmap.yaml")
	if err != nil {
		return nil, fmt.Errorf("read roadmap: %w", err)
	}
	if err := yaml.Unmarshal(raw, &n.Roadmap); err != nil {
		return nil, fmt.Errorf("decode roadmap: %w", err)
	}
	sort.SliceStable(n.Roadmap, func(i, j int) bool {
		return n.Roadmap[i].Order < n.Roadmap[j].Order
	})

	raw, err = fs.ReadFile(fsys, "data/videos.yaml")
	if err != nil {
		return nil, fmt.Errorf("read videos: %w", err)
	}

	var videos []rawVideo
	if err := yaml.Unmarshal(raw, &videos); err != nil {
		return nil, fmt.Errorf("decode videos: %w", err)
	}

	for _, rv := range videos {
		v, err := buildVideo(rv)
		if err != nil {
			return nil, fmt.Errorf("video %s: %w", rv.ID, err)
		}
		n.Videos = append(n.Videos, v)
	}

	return n, nil
}

func buildVideo(rv rawVideo) (Video, error) {
	length, err := ParseTimestamp(rv.Length)
	if err != nil {
		return Video{}, fmt.Errorf("length: %w", err)
	}

	starts := make([]time.Duration, len(rv.Chapters))
	titles := make([]string, len(rv.Chapters))
	for i, c := range rv.Chapters {
		d, err := ParseTimestamp(c.Start)
		if err != nil {
			return Video{}, fmt.Errorf("chapter %q: %w", c.Title, err)
		}
		starts[i] = d
		titles[i] = c.Title
	}

	chapters, err := BuildChapters(titles, starts, length)
	if err != nil {
		return Video{}, err
	}

	return Video{
		ID:       rv.ID,
		Title:    rv.Title,
		Length:   length,
		Seconds:  int(length / time.Second),
		Chapters: chapters,
	}, nil
}

// BuildChapters derives each chapter's end from the next chapter's start.
// The last chapter ends at length. Starts must be strictly increasing and
// before length.
func BuildChapters(titles []string, starts []time.Duration, length time.Duration) ([]Chapter, error) {
	if len(titles) != len(starts) {
		return nil, fmt.Errorf("%d titles for %d starts", len(titles), len(starts))
	}

	chapters := make([]Chapter, len(starts))
	for i, start := range starts {
		if i > 0 && start <= starts[i-1] {
			return nil, fmt.Errorf("chapter %q starts at %s, not after %s",
				titles[i], FormatTimestamp(start), FormatTimestamp(starts[i-1]))
		}

		end := length
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		if start >= length {
			return nil, fmt.Errorf("chapter %q starts at %s, past the video end %s",
				titles[i], FormatTimestamp(start), FormatTimestamp(length))
		}

		chapters[i] = Chapter{
			Title:        titles[i],
			Start:        start,
			End:          end,
			StartLabel:   FormatTimestamp(start),
			EndLabel:     FormatTimestamp(end),
			StartSeconds: int(start / time.Second),
			EndSeconds:   int(end / time.Second),
		}
	}
	return chapters, nil
}

// ParseTimestamp accepts M:SS, MM:SS and H:MM:SS. Seconds are always
// 0-59; minutes are 0-59 only when an hour part is present.
func ParseTimestamp(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		if p == "" || (i > 0 && len(p) != 2) || strings.Trim(p, "0123456789") != "" {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, s)
		}
		nums[i] = n
	}

	var h, m, sec int
	if len(nums) == 3 {
		h, m, sec = nums[0], nums[1], nums[2]
		if m > 59 {
			return 0, fmt.Errorf("%w: %q: minutes out of range", ErrInvalidTimestamp, s)
		}
	} else {
		m, sec = nums[0], nums[1]
	}
	if sec > 59 {
		return 0, fmt.Errorf("%w: %q: seconds out of range", ErrInvalidTimestamp, s)
	}

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(sec)*time.Second, nil
}

// FormatTimestamp is the inverse of ParseTimestamp: H:MM:SS from one hour
// on, M:SS below.
func FormatTimestamp(d time.Duration) string {
	total := int(d / time.Second)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60

	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}

// Video looks a video up by id.
func (n *Notes) Video(id string) (Video, bool) {
	for _, v := range n.Videos {
		if v.ID == id {
			return v, true
		}
	}
	return Video{}, false
}
