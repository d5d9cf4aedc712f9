package main

import (
	"sync"

	gitbookconverter "github.com/jadolg/GitBookConverter"
)

// ConversionStatus represents the current status of a conversion
type ConversionStatus string

const (
	StatusConverting ConversionStatus = "Converting"
	StatusReady      ConversionStatus = "Ready"
	StatusError      ConversionStatus = "Error"
)

// Conversion modes
const (
	ModeMDX    = "mdx"
	ModeNotion = "notion"
)

// ConversionState holds the complete state of a conversion
type ConversionState struct {
	ID        string
	Mode      string
	Status    ConversionStatus
	Error     string
	URL       string
	Size      int64
	Converted int
	Skipped   []gitbookconverter.SkippedEntry
}

// Filename returns the name the archive is offered for download with
func (s *ConversionState) Filename() string {
	if s.Mode == ModeNotion {
		return gitbookconverter.DefaultNotionArchiveName
	}
	return gitbookconverter.DefaultMDXArchiveName
}

// Response renders the state in the format returned by the API
func (s *ConversionState) Response() gitbookconverter.ConvertResponse {
	return gitbookconverter.ConvertResponse{
		ID:        s.ID,
		Mode:      s.Mode,
		Status:    string(s.Status),
		Converted: s.Converted,
		URL:       s.URL,
		Size:      s.Size,
		Skipped:   s.Skipped,
		Error:     s.Error,
	}
}

// StateManager manages the state of all conversions
type StateManager struct {
	sync.RWMutex
	states map[string]*ConversionState
}

// NewStateManager creates a new StateManager instance
func NewStateManager() *StateManager {
	return &StateManager{
		states: make(map[string]*ConversionState),
	}
}

// GetState returns the current state of a conversion, or nil if not found
func (sm *StateManager) GetState(id string) *ConversionState {
	sm.RLock()
	defer sm.RUnlock()
	if state, exists := sm.states[id]; exists {
		// Return a copy to prevent external modification
		stateCopy := *state
		stateCopy.Skipped = append([]gitbookconverter.SkippedEntry(nil), state.Skipped...)
		return &stateCopy
	}
	return nil
}

// SetStatus sets the status of a conversion, registering it when unknown
func (sm *StateManager) SetStatus(id, mode string, status ConversionStatus) {
	sm.Lock()
	defer sm.Unlock()
	if state, exists := sm.states[id]; exists {
		state.Status = status
	} else {
		sm.states[id] = &ConversionState{
			ID:     id,
			Mode:   mode,
			Status: status,
		}
	}
}

// SetReady marks a conversion as ready for download
func (sm *StateManager) SetReady(id, url string, size int64, result *gitbookconverter.Result) {
	sm.Lock()
	defer sm.Unlock()
	state, exists := sm.states[id]
	if !exists {
		state = &ConversionState{ID: id}
		sm.states[id] = state
	}
	state.Status = StatusReady
	state.URL = url
	state.Size = size
	state.Error = ""
	if result != nil {
		state.Converted = result.Converted
		state.Skipped = append([]gitbookconverter.SkippedEntry(nil), result.Skipped...)
	}
}

// SetError marks a conversion as failed with an error message
func (sm *StateManager) SetError(id, errMsg string) {
	sm.Lock()
	defer sm.Unlock()
	if state, exists := sm.states[id]; exists {
		state.Status = StatusError
		state.Error = errMsg
	} else {
		sm.states[id] = &ConversionState{
			ID:     id,
			Status: StatusError,
			Error:  errMsg,
		}
	}
}

// IsReady returns true if the conversion is ready for download
func (sm *StateManager) IsReady(id string) bool {
	sm.RLock()
	defer sm.RUnlock()
	if state, exists := sm.states[id]; exists {
		return state.Status == StatusReady
	}
	return false
}

// HasError returns true if the conversion has failed
func (sm *StateManager) HasError(id string) bool {
	sm.RLock()
	defer sm.RUnlock()
	if state, exists := sm.states[id]; exists {
		return state.Status == StatusError
	}
	return false
}

// Delete removes a conversion from the state manager
func (sm *StateManager) Delete(id string) {
	sm.Lock()
	defer sm.Unlock()
	delete(sm.states, id)
}

// ReadyIDs returns the ids of all conversions ready for download
func (sm *StateManager) ReadyIDs() []string {
	sm.RLock()
	defer sm.RUnlock()
	var ids []string
	for id, state := range sm.states {
		if state.Status == StatusReady {
			ids = append(ids, id)
		}
	}
	return ids
}
