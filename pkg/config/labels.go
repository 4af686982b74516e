package config

import "fmt"

// Label builds the solver case label for a cycle, time node, and optional
// coupled iteration. Pass iteration < 0 for uncoupled cases.
func Label(caseTitle string, cycle, node, iteration int) string {
	if iteration >= 0 {
		return fmt.Sprintf("%s-flux-c%dn%di%d", caseTitle, cycle, node, iteration)
	}
	return fmt.Sprintf("%s-flux-c%dn%d", caseTitle, cycle, node)
}

// IOFileNames derives the solver input, output, and stdout file names for a
// cycle and time node. Zero padding widths follow the case size: four-digit
// cycles past 1000 cycles, three-digit nodes past 10 burn steps.
func IOFileNames(s *Settings, cycle, node, iteration int) (inName, outName, stdName string) {
	cycleFmt := "%03d"
	if s.NCycles > 1000 {
		cycleFmt = "%04d"
	}
	nodeFmt := "%d"
	if s.MaxBurnSteps > 10 {
		nodeFmt = "%03d"
	}
	timeID := fmt.Sprintf(cycleFmt+"_"+nodeFmt, cycle, node)
	if iteration >= 0 {
		timeID += fmt.Sprintf("_%03d", iteration)
	}
	inName = fmt.Sprintf("%s%s.flux.inp", s.CaseTitle, timeID)
	outName = fmt.Sprintf("%s%s.flux.out", s.CaseTitle, timeID)
	stdName = fmt.Sprintf("%s%s.flux.stdout", s.CaseTitle, timeID)
	return inName, outName, stdName
}
