package tessera

import (
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
)

// scriptStep is a single action in a stage script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Actor  string  `json:"actor,omitempty"`
	Target string  `json:"target,omitempty"`
	State  string  `json:"state,omitempty"`
	Model  string  `json:"model,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Zoom   float64 `json:"zoom,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// scriptFile is the top-level JSON structure for a script.
type scriptFile struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"camera":     true, // move the camera target to (x, y)
	"position":   true, // place the camera at (x, y)
	"zoom":       true,
	"model":      true,
	"follow":     true, // follow actor; empty actor stops following
	"place":      true, // put actor at (x, y)
	"move":       true, // TryMove actor by (x, y)
	"state":      true,
	"attack":     true, // actor attacks target
	"remove":     true,
	"wait":       true,
	"screenshot": true,
}

// Script sequences camera moves, actor actions and screenshots across frames
// for demos and automated visual checks. Attach to a Stage via SetScript.
type Script struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool

	hits int
}

// LoadScript parses a JSON script.
func LoadScript(jsonData []byte) (*Script, error) {
	var f scriptFile
	if err := json.Unmarshal(jsonData, &f); err != nil {
		return nil, fmt.Errorf("tessera: parse script: %w", err)
	}
	if len(f.Steps) == 0 {
		return nil, fmt.Errorf("tessera: parse script: no steps")
	}
	for i, st := range f.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("tessera: parse script: step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "model" {
			if _, err := ParseMotionModel(st.Model); err != nil {
				return nil, fmt.Errorf("tessera: parse script: step %d: %w", i, err)
			}
		}
		if st.Action == "state" {
			if _, err := ParseActorState(st.State); err != nil {
				return nil, fmt.Errorf("tessera: parse script: step %d: %w", i, err)
			}
		}
	}
	return &Script{steps: f.Steps}, nil
}

// Done reports whether every step has run.
func (r *Script) Done() bool {
	return r.done
}

// Hits returns how many scripted attacks landed.
func (r *Script) Hits() int {
	return r.hits
}

// step advances the script by one frame. Called from Stage.Update.
func (r *Script) step(s *Stage) {
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	r.run(s, st)

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

func (r *Script) run(s *Stage, st scriptStep) {
	cam := s.Camera()
	switch st.Action {
	case "camera":
		cam.SetTarget(st.X, st.Y)
	case "position":
		cam.SetPosition(st.X, st.Y)
	case "zoom":
		cam.SetZoom(st.Zoom)
	case "model":
		m, _ := ParseMotionModel(st.Model)
		cam.SetModel(m)
	case "follow":
		if st.Actor == "" {
			cam.Follow(nil)
		} else if a := r.actor(s, st); a != nil {
			cam.Follow(a)
		}
	case "place":
		if a := r.actor(s, st); a != nil {
			a.SetPosition(st.X, st.Y)
		}
	case "move":
		if a := r.actor(s, st); a != nil {
			a.TryMove(st.X, st.Y)
		}
	case "state":
		if a := r.actor(s, st); a != nil {
			state, _ := ParseActorState(st.State)
			a.SetState(state)
		}
	case "attack":
		a, t := r.actor(s, st), s.FindActor(st.Target)
		if a != nil && t != nil && a.Attack(t) {
			r.hits++
		}
	case "remove":
		if a := r.actor(s, st); a != nil {
			s.RemoveActor(a)
		}
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	case "screenshot":
		s.Screenshot(st.Label)
	}
}

func (r *Script) actor(s *Stage, st scriptStep) *Actor {
	a := s.FindActor(st.Actor)
	if a == nil {
		log.WithFields(logrus.Fields{"action": st.Action, "actor": st.Actor}).Warn("script: unknown actor")
	}
	return a
}
