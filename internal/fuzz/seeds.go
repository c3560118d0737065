package fuzztests

import (
	"testing"

	"desugar/internal/testkit"
)

// maxFuzzInput is one byte per statement of the generated body.
const maxFuzzInput = testkit.MaxStatements

func addCorpusSeeds(f *testing.F) {
	f.Add([]byte{})
	// каждая форма отдельно
	for form := range testkit.FormCount {
		f.Add([]byte{byte(form)})
	}
	// все формы подряд и вперемешку с повторами
	all := make([]byte, 0, testkit.FormCount)
	for form := range testkit.FormCount {
		all = append(all, byte(form))
	}
	f.Add(all)
	f.Add([]byte{
		testkit.FormNestedGuard, testkit.FormNestedGuard,
		testkit.FormQuery, testkit.FormGuardedValue, testkit.FormQuery,
		testkit.FormGuardedCall, testkit.FormPlainCall, testkit.FormGuardedCall,
	})
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxFuzzInput {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxFuzzInput]...)
}
