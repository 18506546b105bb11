package module

import (
	"slices"
	"sync"
	"testing"
)

type runnerPorts struct {
	Name string
	Runs int
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("corpus", runnerPorts{Name: "corpus", Runs: 1})

	got, ok := PortsAs[runnerPorts]("corpus")
	if !ok || got.Runs != 1 {
		t.Fatalf("PortsAs = %+v, %v", got, ok)
	}
	if _, ok := PortsAs[int]("corpus"); ok {
		t.Fatal("type mismatch should report ok=false")
	}
	if got, ok := PortsAs[runnerPorts]("missing"); ok || got != (runnerPorts{}) {
		t.Fatalf("missing name = %+v, %v", got, ok)
	}
}

func TestRegistry_OverwriteNamesReset(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	Register("rules", runnerPorts{Name: "a"})
	Register("corpus", runnerPorts{Name: "b"})
	Register("rules", runnerPorts{Name: "c"})

	if got, _ := PortsAs[runnerPorts]("rules"); got.Name != "c" {
		t.Fatalf("later Register should win, got %q", got.Name)
	}
	if names := Names(); !slices.Equal(names, []string{"corpus", "rules"}) {
		t.Fatalf("Names = %q", names)
	}

	Reset()
	if len(Names()) != 0 {
		t.Fatal("Reset should clear the registry")
	}
}

func TestRegistry_ConcurrentAccess(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	const n = 100
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		for i := range n {
			Register("concurrent", runnerPorts{Name: "k", Runs: i})
		}
	}()
	go func() {
		defer wg.Done()
		for range n {
			_, _ = PortsAs[runnerPorts]("concurrent")
		}
	}()
	go func() {
		defer wg.Done()
		for range n {
			_ = Names()
		}
	}()
	wg.Wait()

	if got, ok := PortsAs[runnerPorts]("concurrent"); !ok || got.Runs != n-1 {
		t.Fatalf("final value = %+v, %v", got, ok)
	}
}
