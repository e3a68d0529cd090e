package rules

import "github.com/san-kum/lifelab/internal/compute"

// Program is a compiled rule. Exactly one is active in an Engine.
type Program interface {
	Kernel() compute.Kernel
	Source() string
	Parameterized() bool
	isProgram()
}

// ThresholdProgram reads its rule from the engine's Spec.
type ThresholdProgram struct {
	kernel compute.Kernel
}

func (p *ThresholdProgram) Kernel() compute.Kernel { return p.kernel }
func (p *ThresholdProgram) Source() string         { return p.kernel.Source() }
func (p *ThresholdProgram) Parameterized() bool    { return true }
func (p *ThresholdProgram) isProgram()             {}

// CustomProgram carries its rule in the source itself.
type CustomProgram struct {
	kernel compute.Kernel
}

func (p *CustomProgram) Kernel() compute.Kernel { return p.kernel }
func (p *CustomProgram) Source() string         { return p.kernel.Source() }
func (p *CustomProgram) Parameterized() bool    { return false }
func (p *CustomProgram) isProgram()             {}

func wrap(k compute.Kernel) Program {
	if k.Parameterized() {
		return &ThresholdProgram{kernel: k}
	}
	return &CustomProgram{kernel: k}
}

// Describe gives a short label for status lines.
func Describe(p Program) string {
	switch p := p.(type) {
	case *ThresholdProgram:
		return "threshold"
	case *CustomProgram:
		if t, err := compute.ParseRulestring(p.Source()); err == nil {
			return t.String()
		}
		return "custom"
	default:
		return "none"
	}
}
