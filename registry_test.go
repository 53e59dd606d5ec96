package statechart

import (
	"errors"
	"testing"
)

func noopFactory(args *Args[string, struct{}, struct{}]) (StateInstance[struct{}], error) {
	return noopInstance{}, nil
}

type noopInstance struct{}

func (noopInstance) Event(struct{}) bool { return false }
func (noopInstance) OnExit()             {}

func TestRegistryRegisterDuplicate(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	if err := r.register("s1", nil, noopFactory, "s1"); err != nil {
		t.Fatalf("first register failed: %v", err)
	}
	err := r.register("s1", nil, noopFactory, "s1")
	var dup *DuplicateStateError[string]
	if !errors.As(err, &dup) {
		t.Fatalf("expected DuplicateStateError, got %v", err)
	}
}

func TestRegistryDescriptorUnknown(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	_, err := r.descriptor("missing")
	var unk *UnknownStateError[string]
	if !errors.As(err, &unk) {
		t.Fatalf("expected UnknownStateError, got %v", err)
	}
}

func TestRegistryAncestorsRootToLeaf(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	root := "root"
	mid := "mid"
	_ = r.register("root", nil, noopFactory, "root")
	_ = r.register("mid", &root, noopFactory, "mid")
	_ = r.register("leaf", &mid, noopFactory, "leaf")

	path, err := r.ancestors("leaf")
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	want := []string{"root", "mid", "leaf"}
	if len(path) != len(want) {
		t.Fatalf("path = %v, want %v", path, want)
	}
	for i := range want {
		if path[i] != want[i] {
			t.Fatalf("path = %v, want %v", path, want)
		}
	}
}

func TestRegistryAncestorsMemoized(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	_ = r.register("root", nil, noopFactory, "root")

	first, err := r.ancestors("root")
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	second, err := r.ancestors("root")
	if err != nil {
		t.Fatalf("ancestors failed: %v", err)
	}
	if &first[0] != &second[0] {
		t.Fatalf("expected memoized slice to be the identical backing array")
	}
}

func TestRegistryValidateUnknownParent(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	bogusParent := "nope"
	_ = r.register("s1", &bogusParent, noopFactory, "s1")

	err := r.validate()
	var unk *UnknownParentError[string]
	if !errors.As(err, &unk) {
		t.Fatalf("expected UnknownParentError, got %v", err)
	}
}

func TestRegistryValidateCycle(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	a, b := "a", "b"
	_ = r.register("a", &b, noopFactory, "a")
	_ = r.register("b", &a, noopFactory, "b")

	err := r.validate()
	var cyc *CycleDetectedError[string]
	if !errors.As(err, &cyc) {
		t.Fatalf("expected CycleDetectedError, got %v", err)
	}
}

func TestRegistryValidateAcyclicTree(t *testing.T) {
	r := newRegistry[string, struct{}, struct{}]()
	root := "root"
	_ = r.register("root", nil, noopFactory, "root")
	_ = r.register("child", &root, noopFactory, "child")

	if err := r.validate(); err != nil {
		t.Fatalf("validate failed on a valid tree: %v", err)
	}
}
