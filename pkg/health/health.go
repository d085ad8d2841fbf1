// Package health tracks the health of the remote session from the outcome of the
// operations served over it
package health

import (
	"fmt"
	"sync"
	"syscall"
	"time"

	"github.com/sftpfs/sftpfs/pkg/errors"
)

// ComponentSession is the component name under which the remote session is tracked
const ComponentSession = "session"

// HealthState represents the overall health state of a component
type HealthState int

const (
	// StateHealthy indicates the component is fully operational
	StateHealthy HealthState = iota

	// StateDegraded indicates repeated transport failures
	StateDegraded

	// StateUnavailable indicates the component no longer answers
	StateUnavailable
)

// String returns the string representation of a health state
func (s HealthState) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// MarshalText renders the state by name in JSON output
func (s HealthState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ComponentHealth tracks the health of a specific component
type ComponentHealth struct {
	Name              string      `json:"name"`
	State             HealthState `json:"state"`
	LastStateChange   time.Time   `json:"last_state_change"`
	LastHealthCheck   time.Time   `json:"last_health_check"`
	ConsecutiveErrors int         `json:"consecutive_errors"`
	LastError         error       `json:"-"`
	LastErrorMessage  string      `json:"last_error_message,omitempty"`
}

// TrackerConfig configures health tracking behavior
type TrackerConfig struct {
	// ErrorThreshold is the number of consecutive errors before marking a component degraded
	ErrorThreshold int `yaml:"error_threshold" json:"error_threshold"`

	// UnavailableThreshold is the number of consecutive errors before marking unavailable
	UnavailableThreshold int `yaml:"unavailable_threshold" json:"unavailable_threshold"`
}

// StateChangeCallback is called when a component's health state changes
type StateChangeCallback func(component string, oldState, newState HealthState, err error)

// Tracker tracks the health of multiple components and determines overall health
type Tracker struct {
	mu        sync.RWMutex
	config    TrackerConfig
	now       func() time.Time
	callbacks []StateChangeCallback

	components map[string]*ComponentHealth
}

// DefaultConfig returns a default tracker configuration
func DefaultConfig() TrackerConfig {
	return TrackerConfig{
		ErrorThreshold:       3,
		UnavailableThreshold: 10,
	}
}

// NewTracker creates a new health tracker
func NewTracker(config TrackerConfig) *Tracker {
	return &Tracker{
		config:     config,
		now:        time.Now,
		components: make(map[string]*ComponentHealth),
	}
}

// RegisterComponent registers a new component for health tracking
func (t *Tracker) RegisterComponent(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.components[name]; !exists {
		now := t.now()
		t.components[name] = &ComponentHealth{
			Name:            name,
			State:           StateHealthy,
			LastStateChange: now,
			LastHealthCheck: now,
		}
	}
}

// RecordOutcome feeds the result of one remote call. Errors the server answered with
// (missing path, permission denied) show the session working and count as success;
// only transport failures count against it.
func (t *Tracker) RecordOutcome(component string, err error) {
	if err != nil && IsSessionFailure(err) {
		t.RecordError(component, err)
		return
	}
	t.RecordSuccess(component)
}

// RecordSuccess records a successful operation for a component
func (t *Tracker) RecordSuccess(component string) {
	t.mu.Lock()

	health, exists := t.components[component]
	if !exists {
		t.mu.Unlock()
		return
	}

	oldState := health.State
	health.LastHealthCheck = t.now()

	if health.ConsecutiveErrors > 0 {
		health.ConsecutiveErrors--
		if health.ConsecutiveErrors == 0 && health.State != StateHealthy {
			t.transitionState(health, StateHealthy)
		}
	}

	newState := health.State
	callbacks := t.callbacks
	t.mu.Unlock()

	if oldState != newState {
		notify(callbacks, component, oldState, newState, nil)
	}
}

// RecordError records an error for a component
func (t *Tracker) RecordError(component string, err error) {
	t.mu.Lock()

	health, exists := t.components[component]
	if !exists {
		t.mu.Unlock()
		return
	}

	oldState := health.State
	health.LastHealthCheck = t.now()
	health.ConsecutiveErrors++
	health.LastError = err
	if err != nil {
		health.LastErrorMessage = err.Error()
	}

	newState := oldState
	switch {
	case health.ConsecutiveErrors >= t.config.UnavailableThreshold:
		newState = StateUnavailable
	case health.ConsecutiveErrors >= t.config.ErrorThreshold:
		newState = StateDegraded
	}
	if newState != oldState {
		t.transitionState(health, newState)
	}

	callbacks := t.callbacks
	t.mu.Unlock()

	if oldState != newState {
		notify(callbacks, component, oldState, newState, err)
	}
}

// GetState returns the current health state of a component
func (t *Tracker) GetState(component string) HealthState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if health, exists := t.components[component]; exists {
		return health.State
	}
	return StateUnavailable
}

// GetComponentHealth returns the health information for a component
func (t *Tracker) GetComponentHealth(component string) (*ComponentHealth, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	health, exists := t.components[component]
	if !exists {
		return nil, fmt.Errorf("component %s not registered", component)
	}

	// Return a copy to prevent external modification
	c := *health
	return &c, nil
}

// GetAllComponents returns health information for all registered components
func (t *Tracker) GetAllComponents() map[string]*ComponentHealth {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make(map[string]*ComponentHealth, len(t.components))
	for name, health := range t.components {
		c := *health
		result[name] = &c
	}
	return result
}

// GetOverallHealth returns the worst state across all components
func (t *Tracker) GetOverallHealth() HealthState {
	t.mu.RLock()
	defer t.mu.RUnlock()

	overallState := StateHealthy
	for _, health := range t.components {
		if health.State > overallState {
			overallState = health.State
		}
	}
	return overallState
}

// IsHealthy returns true if the component is in a healthy state
func (t *Tracker) IsHealthy(component string) bool {
	return t.GetState(component) == StateHealthy
}

// AddStateChangeCallback registers a callback run on every state change
func (t *Tracker) AddStateChangeCallback(callback StateChangeCallback) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.callbacks = append(t.callbacks, callback)
}

// transitionState must be called with the lock held
func (t *Tracker) transitionState(health *ComponentHealth, newState HealthState) {
	health.State = newState
	health.LastStateChange = t.now()

	if newState == StateHealthy {
		health.ConsecutiveErrors = 0
		health.LastError = nil
		health.LastErrorMessage = ""
	}
}

func notify(callbacks []StateChangeCallback, component string, oldState, newState HealthState, err error) {
	for _, callback := range callbacks {
		callback(component, oldState, newState, err)
	}
}

// IsSessionFailure reports whether err means the session itself failed rather than
// the server rejecting one request
func IsSessionFailure(err error) bool {
	if err == nil {
		return false
	}

	switch errors.ToErrno(err) {
	case syscall.EIO, syscall.ENOTCONN, syscall.ECONNABORTED, syscall.EBADMSG:
		return true
	}
	return false
}
