package lambda

import (
	"fmt"
	"sort"
	"strings"
)

// Metric is a single reduction counter.
type Metric struct {
	Name        string
	Type        string
	Value       float64
	Unit        string
	Description string
}

func (m *Metric) Inc() {
	m.Value++
}

func (m *Metric) Add(delta float64) {
	m.Value += delta
}

// Metrics counts the work done by one interpreter. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	metrics map[string]*Metric

	betaSteps     *Metric
	substitutions *Metric
	renames       *Metric
	unshares      *Metric
}

func NewMetrics() *Metrics {
	m := &Metrics{metrics: make(map[string]*Metric)}
	m.betaSteps = m.Counter("beta_steps", "Beta reductions performed", "steps")
	m.substitutions = m.Counter("substitutions", "Variable occurrences replaced", "nodes")
	m.renames = m.Counter("renames", "Bound parameters renamed to avoid capture", "binders")
	m.unshares = m.Counter("unshares", "Shared sub-terms deep-copied before a write", "terms")
	return m
}

// Counter returns the counter called name, creating it on first use.
func (m *Metrics) Counter(name, desc, unit string) *Metric {
	if c, exists := m.metrics[name]; exists {
		return c
	}
	c := &Metric{
		Name:        name,
		Type:        "counter",
		Unit:        unit,
		Description: desc,
	}
	m.metrics[name] = c
	return c
}

func (m *Metrics) step() {
	if m != nil {
		m.betaSteps.Inc()
	}
}

func (m *Metrics) substituted() {
	if m != nil {
		m.substitutions.Inc()
	}
}

func (m *Metrics) renamed() {
	if m != nil {
		m.renames.Inc()
	}
}

func (m *Metrics) unshared() {
	if m != nil {
		m.unshares.Inc()
	}
}

// Value returns the current value of the named counter, or 0.
func (m *Metrics) Value(name string) float64 {
	if m == nil {
		return 0
	}
	if c, ok := m.metrics[name]; ok {
		return c.Value
	}
	return 0
}

// Snapshot copies every counter value, keyed by name.
func (m *Metrics) Snapshot() map[string]float64 {
	out := make(map[string]float64)
	if m == nil {
		return out
	}
	for name, c := range m.metrics {
		out[name] = c.Value
	}
	return out
}

// Merge adds every counter of other into m.
func (m *Metrics) Merge(other *Metrics) {
	if m == nil || other == nil {
		return
	}
	for name, c := range other.metrics {
		m.Counter(name, c.Description, c.Unit).Add(c.Value)
	}
}

// Reset zeroes every counter.
func (m *Metrics) Reset() {
	if m == nil {
		return
	}
	for _, c := range m.metrics {
		c.Value = 0
	}
}

// GenerateMetricsTable renders the counters as a markdown table sorted by name.
func (m *Metrics) GenerateMetricsTable() string {
	var sb strings.Builder
	sb.WriteString("| Metric | Type | Value | Unit | Description |\n")
	sb.WriteString("|--------|------|-------|------|-------------|\n")
	if m == nil {
		return sb.String()
	}

	names := make([]string, 0, len(m.metrics))
	for name := range m.metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		c := m.metrics[name]
		sb.WriteString(fmt.Sprintf("| %s | %s | %.0f | %s | %s |\n",
			c.Name, c.Type, c.Value, c.Unit, c.Description))
	}

	return sb.String()
}
