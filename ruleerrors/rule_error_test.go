package ruleerrors

import (
	"testing"

	"github.com/pkg/errors"
)

func TestWrappedRuleError(t *testing.T) {
	outer := errors.Wrapf(ErrAuxPoWWrongIndex, "expected index %d, got %d", 3, 5)
	expectedOuterErr := "expected index 3, got 5: ErrAuxPoWWrongIndex"

	if !errors.Is(outer, ErrAuxPoWWrongIndex) {
		t.Fatal("TestWrappedRuleError: outer should wrap ErrAuxPoWWrongIndex")
	}
	if errors.Is(outer, ErrAuxPoWMerkleRootMismatch) {
		t.Fatal("TestWrappedRuleError: outer should not match ErrAuxPoWMerkleRootMismatch")
	}

	rule := &RuleError{}
	if !errors.As(outer, rule) {
		t.Fatal("TestWrappedRuleError: outer should contain RuleError in it")
	}
	if rule.message != "ErrAuxPoWWrongIndex" {
		t.Fatalf("TestWrappedRuleError: Expected message = 'ErrAuxPoWWrongIndex', found: '%s'", rule.message)
	}
	if !IsRuleError(outer) {
		t.Fatal("TestWrappedRuleError: IsRuleError should be true")
	}
	if IsRuleError(errors.New("unrelated")) {
		t.Fatal("TestWrappedRuleError: IsRuleError should be false for a plain error")
	}

	if outer.Error() != expectedOuterErr {
		t.Fatalf("TestWrappedRuleError: Expected %s. found: %s", expectedOuterErr, outer.Error())
	}
}
