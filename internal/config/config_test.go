package config

import "testing"

func TestIsBuiltinNameCoversEveryTable(t *testing.T) {
	for _, table := range [][]string{ListBuiltins, TupleBuiltins, ConversionBuiltins, IOBuiltins, ControlBuiltins} {
		for _, name := range table {
			if !IsBuiltinName(name) {
				t.Errorf("expected %q to be recognized as a builtin", name)
			}
		}
	}
}

func TestIsBuiltinNameRejectsUnknown(t *testing.T) {
	if IsBuiltinName("notARealBuiltin") {
		t.Fatalf("did not expect an arbitrary identifier to be recognized as a builtin")
	}
}

func TestPushInPlaceVariantsArePresent(t *testing.T) {
	for _, name := range []string{"pushFrontInPlace", "pushBackInPlace"} {
		if !IsBuiltinName(name) {
			t.Errorf("expected %q to be a registered list builtin", name)
		}
	}
}

func TestAllBuiltinNamesHasNoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, n := range AllBuiltinNames() {
		if seen[n] {
			t.Errorf("duplicate builtin name %q", n)
		}
		seen[n] = true
	}
}
