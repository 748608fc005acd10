package pta

import (
	"staticore/internal/classes"
	"staticore/internal/ir"
)

// AnalyzeCI runs context-insensitive Andersen pointer analysis from entry.
func AnalyzeCI(entry *ir.Method, h classes.Hierarchy) *Result {
	return NewCI(h).Solve(entry)
}

// AnalyzeCS runs 1-call-site-sensitive pointer analysis from entry.
func AnalyzeCS(entry *ir.Method, h classes.Hierarchy) *Result {
	return NewCS(h).Solve(entry)
}
