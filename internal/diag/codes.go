package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Desugar: пропуски узлов и нарушения контрактов
	DsgInfo               Code = 9000
	DsgSkippedNoFacts     Code = 9001
	DsgSkippedImpure      Code = 9002
	DsgSkippedContext     Code = 9003
	DsgSkippedUnsupported Code = 9004
	DsgContractViolation  Code = 9100

	// IO / bundle
	IOLoadFileError  Code = 4001
	IOSchemaMismatch Code = 4002
	IOWriteError     Code = 4003

	// Конфигурация
	CfgInfo        Code = 5000
	CfgUnknownPass Code = 5001
	CfgBadValue    Code = 5002
)

var (
	codeDescription = map[Code]string{
		UnknownCode:           "Unknown error",
		DsgInfo:               "Desugar information",
		DsgSkippedNoFacts:     "Node left unchanged: semantic facts are missing",
		DsgSkippedImpure:      "Node left unchanged: subject has side effects",
		DsgSkippedContext:     "Node left unchanged: no statement can receive hoisted code here",
		DsgSkippedUnsupported: "Node left unchanged: construct is not lowered by this pass",
		DsgContractViolation:  "Internal contract violation",
		IOLoadFileError:       "Failed to load file",
		IOSchemaMismatch:      "Bundle schema version mismatch",
		IOWriteError:          "Failed to write file",
		CfgInfo:               "Configuration information",
		CfgUnknownPass:        "Unknown pass name",
		CfgBadValue:           "Invalid configuration value",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	case ic >= 9000 && ic < 10000:
		return fmt.Sprintf("DSG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
