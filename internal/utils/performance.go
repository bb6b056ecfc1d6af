package utils

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// StepTiming holds timing information for a single pipeline step
type StepTiming struct {
	Name      string
	StartTime time.Time
	Duration  time.Duration
	SubSteps  []*StepTiming
	parent    *StepTiming
}

// StepAggregate holds aggregate timing information for a step
type StepAggregate struct {
	StepName string
	Count    int
	Total    time.Duration
	Average  time.Duration
	Min      time.Duration
	Max      time.Duration
}

// MaxStepHistory is how many top-level steps GenerateReport keeps. Older
// steps only survive in the aggregates.
const MaxStepHistory = 20

// PerformanceTracker records how long each pipeline step takes. Steps may
// nest; aggregates are kept per step name across runs.
type PerformanceTracker struct {
	mu          sync.Mutex
	currentStep *StepTiming
	steps       []*StepTiming
	aggregates  map[string]*StepAggregate
}

func NewPerformanceTracker() *PerformanceTracker {
	return &PerformanceTracker{
		steps:      make([]*StepTiming, 0),
		aggregates: make(map[string]*StepAggregate),
	}
}

// StartStep begins timing a new step under the current one.
func (pt *PerformanceTracker) StartStep(name string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	step := &StepTiming{
		Name:      name,
		StartTime: time.Now(),
		parent:    pt.currentStep,
	}

	if pt.currentStep != nil {
		pt.currentStep.SubSteps = append(pt.currentStep.SubSteps, step)
	} else {
		pt.steps = append(pt.steps, step)
		if len(pt.steps) > MaxStepHistory {
			pt.steps = append([]*StepTiming(nil), pt.steps[len(pt.steps)-MaxStepHistory:]...)
		}
	}
	pt.currentStep = step
}

// EndStep completes timing for the current step and moves back to its parent.
func (pt *PerformanceTracker) EndStep() {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	step := pt.currentStep
	if step == nil {
		return
	}
	step.Duration = time.Since(step.StartTime)
	pt.updateAggregate(step)
	pt.currentStep = step.parent
}

// Track times fn as a step named name.
func (pt *PerformanceTracker) Track(name string, fn func() error) error {
	pt.StartStep(name)
	defer pt.EndStep()
	return fn()
}

// updateAggregate must be called with pt.mu held.
func (pt *PerformanceTracker) updateAggregate(step *StepTiming) {
	agg, exists := pt.aggregates[step.Name]
	if !exists {
		agg = &StepAggregate{
			StepName: step.Name,
			Min:      step.Duration,
			Max:      step.Duration,
		}
		pt.aggregates[step.Name] = agg
	}

	agg.Count++
	agg.Total += step.Duration
	agg.Average = agg.Total / time.Duration(agg.Count)

	if step.Duration < agg.Min {
		agg.Min = step.Duration
	}
	if step.Duration > agg.Max {
		agg.Max = step.Duration
	}
}

// Aggregate returns a copy of the aggregate for name.
func (pt *PerformanceTracker) Aggregate(name string) (StepAggregate, bool) {
	pt.mu.Lock()
	defer pt.mu.Unlock()
	agg, ok := pt.aggregates[name]
	if !ok {
		return StepAggregate{}, false
	}
	return *agg, true
}

// GenerateReport creates an indented report of the most recent
// MaxStepHistory top-level steps.
func (pt *PerformanceTracker) GenerateReport() string {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	var sb strings.Builder
	sb.WriteString("\n=== Performance Report ===\n")
	for _, step := range pt.steps {
		writeStepReport(&sb, step, 0)
	}
	return sb.String()
}

func writeStepReport(sb *strings.Builder, step *StepTiming, level int) {
	indent := strings.Repeat("  ", level)
	sb.WriteString(fmt.Sprintf("%s%s: %v\n", indent, step.Name, step.Duration.Round(time.Millisecond)))

	for _, subStep := range step.SubSteps {
		writeStepReport(sb, subStep, level+1)
	}
}

// GenerateAggregateReport lists aggregates sorted by total time.
func (pt *PerformanceTracker) GenerateAggregateReport() string {
	pt.mu.Lock()
	steps := make([]StepAggregate, 0, len(pt.aggregates))
	for _, agg := range pt.aggregates {
		steps = append(steps, *agg)
	}
	pt.mu.Unlock()

	sort.Slice(steps, func(i, j int) bool {
		return steps[i].Total > steps[j].Total
	})

	var sb strings.Builder
	sb.WriteString("\n=== Aggregate Performance Report ===\n")
	for _, agg := range steps {
		sb.WriteString(fmt.Sprintf(
			"Step: %s\n"+
				"  Count:   %d\n"+
				"  Total:   %v\n"+
				"  Average: %v\n"+
				"  Min:     %v\n"+
				"  Max:     %v\n",
			agg.StepName,
			agg.Count,
			agg.Total.Round(time.Millisecond),
			agg.Average.Round(time.Millisecond),
			agg.Min.Round(time.Millisecond),
			agg.Max.Round(time.Millisecond),
		))
	}
	return sb.String()
}
