package hologram

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNoSteps is returned for a test script without steps.
var ErrNoSteps = errors.New("hologram: test script has no steps")

// scriptCue is one entry of a test script. Which fields matter depends on
// Action; see TestRunner.
type scriptCue struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
	Melt   *bool   `json:"melt,omitempty"`
}

// cueHandlers apply a cue to the scene and return the number of further
// frames to hold before the next cue runs.
var cueHandlers = map[string]func(s *Scene, c scriptCue) int{
	"screenshot": func(s *Scene, c scriptCue) int {
		s.Screenshot(c.Label)
		return 0
	},
	"move": func(s *Scene, c scriptCue) int {
		s.InjectMove(c.X, c.Y)
		return 0
	},
	"leave": func(s *Scene, _ scriptCue) int {
		s.InjectLeave()
		return 0
	},
	"sweep": func(s *Scene, c scriptCue) int {
		s.InjectSweep(c.FromX, c.FromY, c.ToX, c.ToY, c.Frames)
		return 0
	},
	"wait": func(_ *Scene, c scriptCue) int {
		// The frame that reads the cue is the first frame waited.
		return max(c.Frames-1, 0)
	},
	"container": func(s *Scene, c scriptCue) int {
		s.SetContainer(Container{X: c.X, Y: c.Y, Width: c.Width, Height: c.Height})
		return 0
	},
	"melt": func(s *Scene, c scriptCue) int {
		if c.Melt != nil {
			s.SetMeltEnabled(*c.Melt)
		}
		return 0
	},
}

// TestRunner plays a scripted sequence of pointer gestures, layout changes
// and screenshots against a Scene, one cue per frame. A cue waits until the
// pointer events queued by the previous one have been consumed.
//
// A script is JSON of the form {"steps": [{"action": ...}, ...]} with
// actions "screenshot" (label), "move" (x, y), "leave", "sweep" (fromX,
// fromY, toX, toY, frames), "wait" (frames), "container" (x, y, width,
// height) and "melt" (melt).
type TestRunner struct {
	cues []scriptCue
	next int
	hold int
	done bool
}

// LoadTestScript parses a JSON test script. Attach the result to a Scene
// with SetTestRunner.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []scriptCue `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("hologram: parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, ErrNoSteps
	}
	for i, c := range script.Steps {
		if _, ok := cueHandlers[c.Action]; !ok {
			return nil, fmt.Errorf("hologram: parse test script: step %d: unknown action %q", i, c.Action)
		}
	}
	return &TestRunner{cues: script.Steps}, nil
}

// SetTestRunner attaches runner to the scene. It is advanced at the start of
// every Step, before pointer input is read.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every cue has run and its effects have drained.
func (r *TestRunner) Done() bool {
	return r.done
}

func (r *TestRunner) step(s *Scene) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.hold > 0 {
		r.hold--
		return
	}
	if r.next == len(r.cues) {
		r.done = true
		return
	}

	c := r.cues[r.next]
	r.next++
	r.hold = cueHandlers[c.Action](s, c)
	r.done = r.next == len(r.cues) && r.hold == 0 && len(s.injectQueue) == 0
}
