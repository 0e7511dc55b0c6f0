package speech

// ListeningPlaceholder is shown in the input while recording.
const ListeningPlaceholder = "Listening..."

// Field is the search input a session writes to.
type Field interface {
	SetValue(string)
	SetPlaceholder(string)
}

// Session tracks one speech-to-text trigger. While active the trigger is
// disabled and the input shows ListeningPlaceholder.
type Session struct {
	field       Field
	placeholder string
	active      bool
	transcript  string
}

// NewSession binds a session to field. placeholder is restored when the
// session ends.
func NewSession(field Field, placeholder string) *Session {
	return &Session{field: field, placeholder: placeholder}
}

// Start begins listening. It returns false if a session is already active.
func (s *Session) Start() bool {
	if s.active {
		return false
	}
	s.active = true
	s.transcript = ""
	s.field.SetPlaceholder(ListeningPlaceholder)
	return true
}

// Apply copies the recognised transcript into the input.
func (s *Session) Apply(res Result) {
	s.transcript = res.Transcript
	s.field.SetValue(res.Transcript)
}

// Finish restores the trigger and placeholder and returns the transcript
// the caller should submit.
func (s *Session) Finish() string {
	s.active = false
	s.field.SetPlaceholder(s.placeholder)
	return s.transcript
}

// Fail restores the trigger and placeholder and returns the alert text.
func (s *Session) Fail(err error) string {
	s.Finish()
	return Message(err)
}

// IsActive reports whether the session is listening.
func (s *Session) IsActive() bool {
	return s.active
}
