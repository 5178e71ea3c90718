// Package catalog holds the annotated practice problems.
//
// Problems are YAML documents under problems/. Each one states the
// expected result set of a correct query plus a list of attempts, marked
// done or wrong, with the commentary explaining the mistake.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed problems/*.yaml
var problemFS embed.FS

var (
	// ErrProblemNotFound is returned by Get for an unknown id.
	ErrProblemNotFound = errors.New("catalog: problem not found")

	// ErrInvalidProblem wraps every validation failure raised by Load.
	ErrInvalidProblem = errors.New("catalog: invalid problem")
)

type Verdict string

const (
	VerdictDone  Verdict = "done"
	VerdictWrong Verdict = "wrong"
)

type FailureKind string

const (
	// FailureError: the engine must reject the statement.
	FailureError FailureKind = "error"
	// FailureMismatch: the statement runs but returns the wrong rows.
	FailureMismatch FailureKind = "mismatch"
)

// Failure describes how a wrong attempt is expected to go wrong.
type Failure struct {
	Kind FailureKind `yaml:"kind" json:"kind"`

	// Contains is a case-insensitive substring of the engine error.
	// Only used with FailureError.
	Contains string `yaml:"contains,omitempty" json:"contains,omitempty"`
}

type Attempt struct {
	Label   string   `yaml:"label" json:"label"`
	Verdict Verdict  `yaml:"verdict" json:"verdict"`
	Note    string   `yaml:"note" json:"note"`
	SQL     string   `yaml:"sql" json:"sql"`
	Failure *Failure `yaml:"failure,omitempty" json:"failure,omitempty"`
}

type Problem struct {
	ID     string   `yaml:"id" json:"id"`
	Title  string   `yaml:"title" json:"title"`
	Topic  string   `yaml:"topic" json:"topic"`
	Tables []string `yaml:"tables" json:"tables"`
	Prompt string   `yaml:"prompt" json:"prompt"`

	// Ordered makes row order part of the expected result.
	Ordered  bool       `yaml:"ordered" json:"ordered"`
	Expected [][]string `yaml:"expected" json:"expected"`
	Attempts []Attempt  `yaml:"attempts" json:"attempts"`
}

// Solutions returns the done attempts.
func (p Problem) Solutions() []Attempt {
	var out []Attempt
	for _, a := range p.Attempts {
		if a.Verdict == VerdictDone {
			out = append(out, a)
		}
	}
	return out
}

// Catalog is an immutable, id-sorted problem set.
type Catalog struct {
	problems []Problem
	byID     map[string]int
}

// Default loads the problems compiled into the binary.
func Default() (*Catalog, error) {
	return Load(problemFS)
}

// Load decodes and validates every problems/*.yaml file of fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	files, err := fs.Glob(fsys, "problems/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("list problems: %w", err)
	}

	c := &Catalog{byID: make(map[string]int, len(files))}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", file, err)
		}

		var p Problem
		if err := yaml.Unmarshal(data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", path.Base(file), err)
		}

		if err := validate(p); err != nil {
			return nil, fmt.Errorf("%s: %w", path.Base(file), err)
		}

		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %q", ErrInvalidProblem, p.ID)
		}
		c.byID[p.ID] = -1
		c.problems = append(c.problems, p)
	}

	sort.Slice(c.problems, func(i, j int) bool {
		return c.problems[i].ID < c.problems[j].ID
	})
	for i, p := range c.problems {
		c.byID[p.ID] = i
	}

	return c, nil
}

func validate(p Problem) error {
	if p.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidProblem)
	}
	if p.Topic == "" {
		return fmt.Errorf("%w: %s: missing topic", ErrInvalidProblem, p.ID)
	}
	if len(p.Expected) == 0 {
		return fmt.Errorf("%w: %s: no expected rows", ErrInvalidProblem, p.ID)
	}

	width := len(p.Expected[0])
	for i, row := range p.Expected {
		if len(row) != width {
			return fmt.Errorf("%w: %s: expected row %d has %d columns, want %d",
				ErrInvalidProblem, p.ID, i, len(row), width)
		}
	}

	done := 0
	for i, a := range p.Attempts {
		if strings.TrimSpace(a.SQL) == "" {
			return fmt.Errorf("%w: %s: attempt %d has no sql", ErrInvalidProblem, p.ID, i)
		}

		switch a.Verdict {
		case VerdictDone:
			done++
			if a.Failure != nil {
				return fmt.Errorf("%w: %s: done attempt %d declares a failure", ErrInvalidProblem, p.ID, i)
			}
		case VerdictWrong:
			if a.Failure == nil {
				return fmt.Errorf("%w: %s: wrong attempt %d has no failure kind", ErrInvalidProblem, p.ID, i)
			}
			switch a.Failure.Kind {
			case FailureError:
				if strings.TrimSpace(a.Failure.Contains) == "" {
					return fmt.Errorf("%w: %s: attempt %d: error failure needs contains", ErrInvalidProblem, p.ID, i)
				}
			case FailureMismatch:
			default:
				return fmt.Errorf("%w: %s: attempt %d: unknown failure kind %q",
					ErrInvalidProblem, p.ID, i, a.Failure.Kind)
			}
		default:
			return fmt.Errorf("%w: %s: attempt %d: unknown verdict %q", ErrInvalidProblem, p.ID, i, a.Verdict)
		}
	}

	if done == 0 {
		return fmt.Errorf("%w: %s: no done attempt", ErrInvalidProblem, p.ID)
	}

	return nil
}

// All returns every problem in id order. The slice is a copy.
func (c *Catalog) All() []Problem {
	out := make([]Problem, len(c.problems))
	copy(out, c.problems)
	return out
}

func (c *Catalog) Get(id string) (Problem, error) {
	i, ok := c.byID[id]
	if !ok {
		return Problem{}, fmt.Errorf("%w: %s", ErrProblemNotFound, id)
	}
	return c.problems[i], nil
}

// ByTopic filters by topic. An empty topic returns everything.
func (c *Catalog) ByTopic(topic string) []Problem {
	if topic == "" {
		return c.All()
	}

	out := []Problem{}
	for _, p := range c.problems {
		if strings.EqualFold(p.Topic, topic) {
			out = append(out, p)
		}
	}
	return out
}

// Topics lists the distinct topics, sorted.
func (c *Catalog) Topics() []string {
	seen := map[string]bool{}
	topics := []string{}
	for _, p := range c.problems {
		if !seen[p.Topic] {
			seen[p.Topic] = true
			topics = append(topics, p.Topic)
		}
	}
	sort.Strings(topics)
	return topics
}

func (c *Catalog) Len() int {
	return len(c.problems)
}
