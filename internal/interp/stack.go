package interp

import "log"

type frameKind int

const (
	frameOwned frameKind = iota
	frameTracker
)

// frame is one layer of the session stack. Owned frames created a child and
// its pseudoterminal and are responsible for full shutdown; tracker frames
// mark logical descent into a subshell running inside an existing owned
// session and tear down silently.
type frame struct {
	kind    frameKind
	label   string
	session shellSession // owned frames only
	owner   int          // tracker frames: index of the referent owned frame
}

// sessionStack is an ordered sequence of frames, top last. The bottom frame
// is always owned; a tracker's referent is always below it.
type sessionStack struct {
	frames []frame
}

func (s *sessionStack) depth() int {
	return len(s.frames)
}

func (s *sessionStack) pushOwned(label string, sess shellSession) {
	s.frames = append(s.frames, frame{kind: frameOwned, label: label, session: sess})
}

// pushTracker layers a tracker over the current owned session. No-op on an
// empty stack; a tracker cannot be the bottom frame.
func (s *sessionStack) pushTracker(label string) {
	owner := s.currentOwnedIndex()
	if owner < 0 {
		log.Printf("stack: refusing tracker %q on empty stack", label)
		return
	}
	s.frames = append(s.frames, frame{kind: frameTracker, label: label, owner: owner})
}

func (s *sessionStack) pop() (frame, bool) {
	if len(s.frames) == 0 {
		return frame{}, false
	}
	f := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return f, true
}

// currentOwnedIndex returns the index of the nearest owned frame from the
// top, following a tracker's referent.
func (s *sessionStack) currentOwnedIndex() int {
	for i := len(s.frames) - 1; i >= 0; i-- {
		f := s.frames[i]
		if f.kind == frameOwned {
			return i
		}
		return f.owner
	}
	return -1
}

// current returns the session commands are routed to: the nearest owned
// ancestor's session.
func (s *sessionStack) current() shellSession {
	i := s.currentOwnedIndex()
	if i < 0 {
		return nil
	}
	return s.frames[i].session
}
