// Package generate synthesizes the minimal wrapper programs that invoke
// test subroutines from a module under test. Output is a pure function of
// the module and subroutine names so generated text is reproducible.
package generate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fortest/internal/domain"
)

// Generator produces Fortran driver program source text.
type Generator struct{}

// NewGenerator creates a new Generator
func NewGenerator() *Generator {
	return &Generator{}
}

// FullRunner returns a program that calls every given test subroutine in
// order and prints the assertion summary at the end.
func (g *Generator) FullRunner(fileStem, moduleName string, subroutines []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program run_%s\n", fileStem)
	fmt.Fprintf(&b, "    use %s\n", domain.AssertionModule)
	fmt.Fprintf(&b, "    use %s\n", moduleName)
	b.WriteString("    implicit none\n")
	for _, sub := range subroutines {
		fmt.Fprintf(&b, "    call %s()\n", sub)
	}
	b.WriteString("    call print_summary()\n")
	fmt.Fprintf(&b, "end program run_%s\n", fileStem)
	return b.String()
}

// SingleRunner returns a program that calls exactly one normal test
// subroutine, for one-test-per-process isolation.
func (g *Generator) SingleRunner(moduleName, subroutine string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program run_%s\n", subroutine)
	fmt.Fprintf(&b, "    use %s\n", domain.AssertionModule)
	fmt.Fprintf(&b, "    use %s\n", moduleName)
	b.WriteString("    implicit none\n")
	fmt.Fprintf(&b, "    call %s()\n", subroutine)
	fmt.Fprintf(&b, "end program run_%s\n", subroutine)
	return b.String()
}

// AbortRunner returns a program that calls exactly one abort-expected test
// subroutine. It deliberately omits the assertion module: the expected
// behavior is abnormal process termination, not assertion bookkeeping.
func (g *Generator) AbortRunner(moduleName, subroutine string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "program run_%s\n", subroutine)
	fmt.Fprintf(&b, "    use %s\n", moduleName)
	b.WriteString("    implicit none\n")
	fmt.Fprintf(&b, "    call %s()\n", subroutine)
	fmt.Fprintf(&b, "end program run_%s\n", subroutine)
	return b.String()
}

// WriteFullRunner writes the full-file runner into outputDir as
// gen_runner_<file>.f90 and returns its path.
func (g *Generator) WriteFullRunner(testFile, moduleName string, subroutines []string, outputDir string) (string, error) {
	stem := strings.TrimSuffix(filepath.Base(testFile), filepath.Ext(testFile))
	path := filepath.Join(outputDir, "gen_runner_"+filepath.Base(testFile))
	return path, writeProgram(path, g.FullRunner(stem, moduleName, subroutines))
}

// WriteSingleRunner writes a one-test runner into outputDir as
// gen_<subroutine>.f90 and returns its path.
func (g *Generator) WriteSingleRunner(moduleName, subroutine, outputDir string) (string, error) {
	path := filepath.Join(outputDir, "gen_"+subroutine+".f90")
	return path, writeProgram(path, g.SingleRunner(moduleName, subroutine))
}

// WriteAbortRunner writes an abort-expected runner into outputDir as
// gen_<subroutine>.f90 and returns its path.
func (g *Generator) WriteAbortRunner(moduleName, subroutine, outputDir string) (string, error) {
	path := filepath.Join(outputDir, "gen_"+subroutine+".f90")
	return path, writeProgram(path, g.AbortRunner(moduleName, subroutine))
}

func writeProgram(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write driver program: %w", err)
	}
	return nil
}
