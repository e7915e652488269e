package testutil

import (
	"fmt"
	"os"
	"time"

	"github.com/specialistvlad/flowbench/internal/graphgen"
)

// FakeSolverEnv selects the fake solver behaviour when the test binary is
// re-executed as a solver. Packages that use it call MaybeRunFakeSolver from
// TestMain.
const FakeSolverEnv = "FLOWBENCH_FAKE_SOLVER"

// Fake solver behaviours.
const (
	// FakeEcho parses the graph file and prints "<vertices>, <edges>\n".
	FakeEcho = "echo"
	// FakeFail exits with code 1 and prints nothing.
	FakeFail = "fail"
	// FakePartial prints a line to each stream and exits with code 3.
	FakePartial = "partial"
	// FakeHang sleeps far longer than any test timeout.
	FakeHang = "hang"
)

// FakeSolverExecutable returns the executable and environment that turn the
// current test binary into a fake solver running mode.
func FakeSolverExecutable(mode string) (string, map[string]string) {
	return os.Args[0], map[string]string{FakeSolverEnv: mode}
}

// MaybeRunFakeSolver acts as a solver and exits when FakeSolverEnv is set.
// Otherwise it returns immediately.
func MaybeRunFakeSolver() {
	mode := os.Getenv(FakeSolverEnv)
	if mode == "" {
		return
	}
	os.Exit(runFake(mode, os.Args[len(os.Args)-1]))
}

func runFake(mode, path string) int {
	switch mode {
	case FakeEcho:
		f, err := os.Open(path)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to open graph file")
			return 1
		}
		defer f.Close()
		g, err := graphgen.Read(f)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("%d, %d\n", g.Vertices, len(g.Edges))
		return 0
	case FakeFail:
		return 1
	case FakePartial:
		fmt.Println("partial")
		fmt.Fprintln(os.Stderr, "boom")
		return 3
	case FakeHang:
		time.Sleep(time.Minute)
		return 0
	default:
		fmt.Fprintf(os.Stderr, "unknown fake solver mode %q\n", mode)
		return 2
	}
}
