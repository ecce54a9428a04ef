package form

// state is the form-wide tracker: the submitted flag, stored per-field errors
// and modified flags (keyed by sanitized field id), and a monotonically
// increasing change token. The token moves whenever any tracked value
// actually changes; the controller runs a single consolidated reconciliation
// pass per drain when the token moved, instead of one watcher per field.
type state struct {
	submitted bool
	errors    map[string]string
	modified  map[string]bool
	token     uint64
}

func newState() state {
	return state{
		errors:   make(map[string]string),
		modified: make(map[string]bool),
	}
}

func (s *state) setSubmitted(submitted bool) {
	if s.submitted == submitted {
		return
	}
	s.submitted = submitted
	s.token++
}

func (s *state) setError(id, message string) {
	current, ok := s.errors[id]
	if ok && current == message {
		return
	}
	s.errors[id] = message
	s.token++
}

func (s *state) clearError(id string) {
	if _, ok := s.errors[id]; !ok {
		return
	}
	delete(s.errors, id)
	s.token++
}

func (s *state) setModified(id string, modified bool) {
	if s.modified[id] == modified {
		return
	}
	if modified {
		s.modified[id] = true
	} else {
		delete(s.modified, id)
	}
	s.token++
}

func (s *state) clearModified() {
	if len(s.modified) == 0 {
		return
	}
	s.modified = make(map[string]bool)
	s.token++
}

func (s *state) drop(id string) {
	if _, ok := s.errors[id]; ok {
		delete(s.errors, id)
		s.token++
	}
	if s.modified[id] {
		delete(s.modified, id)
		s.token++
	}
}
